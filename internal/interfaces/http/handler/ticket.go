package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/queueing"
)

// TicketHandler handles ticket lifecycle HTTP requests
type TicketHandler struct {
	BaseHandler
	ticketService *queueing.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *queueing.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// Create godoc
// @Summary      Issue a ticket for a registered patient
// @Tags         tickets
// @Router       /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req queueing.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ticketService.Create(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// QuickCreate godoc
// @Summary      Issue a ticket from the kiosk, registering the patient if needed
// @Tags         tickets
// @Router       /public/tickets [post]
func (h *TicketHandler) QuickCreate(c *gin.Context) {
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

// GetByID godoc
// @Summary      Get a ticket by ID
// @Tags         tickets
// @Router       /tickets/{id} [get]
func (h *TicketHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	result, err := h.ticketService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByNumber godoc
// @Summary      Get today's ticket by its display number
// @Tags         tickets
// @Router       /tickets/number/{number} [get]
func (h *TicketHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Ticket number is required")
		return
	}

	result, err := h.ticketService.GetByNumber(c.Request.Context(), number, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List tickets with filters and pagination
// @Tags         tickets
// @Router       /tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	var filter queueing.TicketListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, total, err := h.ticketService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// Queue godoc
// @Summary      List waiting tickets for a service, in call order
// @Tags         tickets
// @Router       /services/{id}/queue [get]
func (h *TicketHandler) Queue(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("id"))
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

// Next godoc
// @Summary      Peek at the next ticket to call for a service
// @Tags         tickets
// @Router       /services/{id}/next [get]
func (h *TicketHandler) Next(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	result, err := h.ticketService.NextForService(c.Request.Context(), serviceTypeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Call godoc
// @Summary      Call a waiting ticket to a station
// @Tags         tickets
// @Router       /tickets/{id}/call [post]
func (h *TicketHandler) Call(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req queueing.CallTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ticketService.Call(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Attend godoc
// @Summary      Mark a called ticket as being attended
// @Tags         tickets
// @Router       /tickets/{id}/attend [post]
func (h *TicketHandler) Attend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	result, err := h.ticketService.Attend(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Complete godoc
// @Summary      Complete a ticket's attention
// @Tags         tickets
// @Router       /tickets/{id}/complete [post]
func (h *TicketHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req queueing.CompleteTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ticketService.Complete(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel a ticket, or mark a no-show
// @Tags         tickets
// @Router       /tickets/{id}/cancel [post]
func (h *TicketHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req queueing.CancelTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ticketService.Cancel(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Transfer godoc
// @Summary      Transfer a ticket to another service queue
// @Tags         tickets
// @Router       /tickets/{id}/transfer [post]
func (h *TicketHandler) Transfer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req queueing.TransferTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ticketService.Transfer(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ResetPositions godoc
// @Summary      Renumber a service's waiting tickets contiguously
// @Tags         tickets
// @Router       /tickets/reset-positions/{serviceTypeId} [post]
func (h *TicketHandler) ResetPositions(c *gin.Context) {
	serviceTypeID, err := uuid.Parse(c.Param("serviceTypeId"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	renumbered, err := h.ticketService.ResetPositions(c.Request.Context(), serviceTypeID, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"renumbered": renumbered})
}

// Position godoc
// @Summary      Get a ticket's live position in its queue
// @Tags         tickets
// @Router       /tickets/{id}/position [get]
func (h *TicketHandler) Position(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	result, err := h.ticketService.Position(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Stats godoc
// @Summary      Summarize today's ticket activity
// @Tags         tickets
// @Router       /tickets/stats [get]
func (h *TicketHandler) Stats(c *gin.Context) {
	result, err := h.ticketService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
