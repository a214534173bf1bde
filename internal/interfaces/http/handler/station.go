package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/queueing"
)

// StationHandler handles attention station HTTP requests
type StationHandler struct {
	BaseHandler
	stationService *queueing.StationService
}

// NewStationHandler creates a new station handler
func NewStationHandler(stationService *queueing.StationService) *StationHandler {
	return &StationHandler{
		stationService: stationService,
	}
}

// Create godoc
// @Summary      Create an attention station
// @Tags         stations
// @Router       /stations [post]
func (h *StationHandler) Create(c *gin.Context) {
	var req queueing.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.stationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @Summary      Get a station by ID
// @Tags         stations
// @Router       /stations/{id} [get]
func (h *StationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid station ID")
		return
	}

	result, err := h.stationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByCode godoc
// @Summary      Get a station by code
// @Tags         stations
// @Router       /stations/code/{code} [get]
func (h *StationHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Station code is required")
		return
	}

	result, err := h.stationService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List stations with filters and pagination
// @Tags         stations
// @Router       /stations [get]
func (h *StationHandler) List(c *gin.Context) {
	var filter queueing.StationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, total, err := h.stationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// ListAvailable godoc
// @Summary      List stations currently available to take tickets
// @Tags         stations
// @Router       /stations/available [get]
func (h *StationHandler) ListAvailable(c *gin.Context) {
	results, err := h.stationService.ListAvailable(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Update godoc
// @Summary      Update a station
// @Tags         stations
// @Router       /stations/{id} [put]
func (h *StationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid station ID")
		return
	}

	var req queueing.UpdateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.stationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetStatus godoc
// @Summary      Change a station's operational status
// @Tags         stations
// @Router       /stations/{id}/status [patch]
func (h *StationHandler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid station ID")
		return
	}

	var req queueing.SetStationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.stationService.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate godoc
// @Summary      Deactivate a station
// @Tags         stations
// @Router       /stations/{id} [delete]
func (h *StationHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid station ID")
		return
	}

	if err := h.stationService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
