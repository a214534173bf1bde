package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/catalog"
	"github.com/labqueue/backend/internal/application/queueing"
)

// PublicHandler serves the unauthenticated kiosk and waiting-room
// display endpoints. It exposes only read views plus the quick ticket
// flow; everything else requires a staff token.
type PublicHandler struct {
	BaseHandler
	ticketService      *queueing.TicketService
	queueService       *queueing.QueueService
	serviceTypeService *catalog.ServiceTypeService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(ticketService *queueing.TicketService, queueService *queueing.QueueService, serviceTypeService *catalog.ServiceTypeService) *PublicHandler {
	return &PublicHandler{
		ticketService:      ticketService,
		queueService:       queueService,
		serviceTypeService: serviceTypeService,
	}
}

// Services godoc
// @Summary      List services available at the kiosk
// @Tags         public
// @Router       /public/services [get]
func (h *PublicHandler) Services(c *gin.Context) {
	results, err := h.serviceTypeService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Queues godoc
// @Summary      Live queue board for the waiting-room display
// @Tags         public
// @Router       /public/queues [get]
func (h *PublicHandler) Queues(c *gin.Context) {
	results, err := h.queueService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// QueueSummary godoc
// @Summary      Aggregate queue counters for the display header
// @Tags         public
// @Router       /public/queues/summary [get]
func (h *PublicHandler) QueueSummary(c *gin.Context) {
	result, err := h.queueService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Waiting godoc
// @Summary      Waiting tickets of one service for the display
// @Tags         public
// @Router       /public/queues/{serviceTypeId}/waiting [get]
func (h *PublicHandler) Waiting(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("serviceTypeId"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	results, err := h.ticketService.QueueForService(c.Request.Context(), serviceTypeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// CurrentCalls godoc
// @Summary      Tickets being called right now, newest first
// @Tags         public
// @Router       /public/current-calls [get]
func (h *PublicHandler) CurrentCalls(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	results, err := h.ticketService.CurrentCalls(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// QuickTicket godoc
// @Summary      Take a ticket from the kiosk by document number
// @Tags         public
// @Router       /public/tickets [post]
func (h *PublicHandler) QuickTicket(c *gin.Context) {
	var req queueing.QuickTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ticketService.QuickCreate(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// TicketStatus godoc
// @Summary      Look up today's ticket by its printed number
// @Tags         public
// @Router       /public/tickets/{number} [get]
func (h *PublicHandler) TicketStatus(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Ticket number is required")
		return
	}

	ticket, err := h.ticketService.GetByNumber(c.Request.Context(), number, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	position, err := h.ticketService.Position(c.Request.Context(), ticket.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"ticket":   ticket,
		"position": position,
	})
}
