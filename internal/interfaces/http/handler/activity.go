package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/reporting"
)

// ActivityHandler handles audit log HTTP requests
type ActivityHandler struct {
	BaseHandler
	activityService *reporting.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *reporting.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// List godoc
// @Summary      List activity log entries
// @Tags         activity
// @Router       /activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var filter reporting.ActivityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, total, err := h.activityService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// ListByTicket godoc
// @Summary      List the audit trail for a ticket
// @Tags         activity
// @Router       /activity/ticket/{ticketId} [get]
func (h *ActivityHandler) ListByTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticketId"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	results, err := h.activityService.ListByTicket(c.Request.Context(), ticketID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}
