package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/notification"
)

// NotificationHandler handles display-notification log HTTP requests
type NotificationHandler struct {
	BaseHandler
	notificationService *notification.NotificationService
	sender              notification.Sender
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notification.NotificationService, sender notification.Sender) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		sender:              sender,
	}
}

// List godoc
// @Summary      List notification log entries
// @Tags         notifications
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notification.NotificationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, total, err := h.notificationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// ListByTicket godoc
// @Summary      List notifications emitted for a ticket
// @Tags         notifications
// @Router       /notifications/ticket/{ticketId} [get]
func (h *NotificationHandler) ListByTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticketId"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	results, err := h.notificationService.ListByTicket(c.Request.Context(), ticketID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ListFailures godoc
// @Summary      List failed notification deliveries
// @Tags         notifications
// @Router       /notifications/failures [get]
func (h *NotificationHandler) ListFailures(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	results, err := h.notificationService.ListFailures(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Retry godoc
// @Summary      Retry a failed notification delivery
// @Tags         notifications
// @Router       /notifications/{id}/retry [post]
func (h *NotificationHandler) Retry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	result, err := h.notificationService.Retry(c.Request.Context(), id, h.sender)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
