package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/queueing"
)

// QueueHandler handles live queue state HTTP requests
type QueueHandler struct {
	BaseHandler
	queueService *queueing.QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queueService *queueing.QueueService) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
	}
}

// GetState godoc
// @Summary      Get the live queue snapshot for a service
// @Tags         queues
// @Router       /queues/{serviceTypeId} [get]
func (h *QueueHandler) GetState(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("serviceTypeId"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	var stationID *uuid.UUID
	if raw := c.Query("station_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid station ID")
			return
		}
		stationID = &id
	}

	result, err := h.queueService.GetState(c.Request.Context(), serviceTypeID, stationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListActive godoc
// @Summary      List queue snapshots for all active services
// @Tags         queues
// @Router       /queues [get]
func (h *QueueHandler) ListActive(c *gin.Context) {
	results, err := h.queueService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ListByService godoc
// @Summary      List every snapshot of a service, general queue first
// @Tags         queues
// @Router       /queues/{serviceTypeId}/states [get]
func (h *QueueHandler) ListByService(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("serviceTypeId"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	results, err := h.queueService.ListByService(c.Request.Context(), serviceTypeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ListByStation godoc
// @Summary      List the queue snapshots bound to a station
// @Tags         queues
// @Router       /queues/station/{stationId} [get]
func (h *QueueHandler) ListByStation(c *gin.Context) {
	stationID, err := uuid.Parse(c.Param("stationId"))
	if err != nil {
		h.BadRequest(c, "Invalid station ID")
		return
	}

	results, err := h.queueService.ListByStation(c.Request.Context(), stationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Refresh godoc
// @Summary      Rebuild a queue snapshot from the ticket store
// @Tags         queues
// @Router       /queues/{serviceTypeId}/refresh [post]
func (h *QueueHandler) Refresh(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("serviceTypeId"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	result, err := h.queueService.Refresh(c.Request.Context(), serviceTypeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Advance godoc
// @Summary      Promote the next ticket of a service queue to current
// @Tags         queues
// @Router       /queues/{serviceTypeId}/advance [post]
func (h *QueueHandler) Advance(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("serviceTypeId"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	result, err := h.queueService.Advance(c.Request.Context(), serviceTypeID, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateWaitTime godoc
// @Summary      Recompute a service's average wait from recent tickets
// @Tags         queues
// @Router       /queues/{serviceTypeId}/wait-time [post]
func (h *QueueHandler) UpdateWaitTime(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("serviceTypeId"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	minutes, err := h.queueService.UpdateWaitTime(c.Request.Context(), serviceTypeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"average_wait_time": minutes})
}

// RefreshAll godoc
// @Summary      Rebuild every active queue snapshot
// @Tags         queues
// @Router       /queues/refresh [post]
func (h *QueueHandler) RefreshAll(c *gin.Context) {
	refreshed, err := h.queueService.RefreshAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"refreshed": refreshed})
}

// Reset godoc
// @Summary      Reset a service queue, cancelling all waiting tickets
// @Tags         queues
// @Router       /queues/{serviceTypeId}/reset [post]
func (h *QueueHandler) Reset(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("serviceTypeId"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	if err := h.queueService.Reset(c.Request.Context(), serviceTypeID, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Summary godoc
// @Summary      Dashboard-level view across all queues
// @Tags         queues
// @Router       /queues/summary [get]
func (h *QueueHandler) Summary(c *gin.Context) {
	result, err := h.queueService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// InitializeAll godoc
// @Summary      Create or refresh the snapshot of every active service
// @Tags         queues
// @Router       /queues/initialize [post]
func (h *QueueHandler) InitializeAll(c *gin.Context) {
	initialized, err := h.queueService.InitializeAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"initialized": initialized})
}

// ConsistencyCheck godoc
// @Summary      Verify queue snapshots against the ticket store
// @Tags         queues
// @Router       /queues/consistency [post]
func (h *QueueHandler) ConsistencyCheck(c *gin.Context) {
	fix, _ := strconv.ParseBool(c.DefaultQuery("fix", "false"))

	report, err := h.queueService.ConsistencyCheck(c.Request.Context(), fix)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// CleanupStale godoc
// @Summary      Expire tickets stuck in CALLED past the cutoff
// @Tags         queues
// @Router       /queues/cleanup [post]
func (h *QueueHandler) CleanupStale(c *gin.Context) {
	maxAgeMinutes, err := strconv.Atoi(c.DefaultQuery("max_age_minutes", "30"))
	if err != nil || maxAgeMinutes <= 0 {
		h.BadRequest(c, "Invalid max_age_minutes")
		return
	}

	cleaned, err := h.queueService.CleanupStale(c.Request.Context(), time.Duration(maxAgeMinutes)*time.Minute)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"cleaned": cleaned})
}
