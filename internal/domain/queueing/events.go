package queueing

import (
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// Event types emitted by the queueing context
const (
	EventTicketCreated     = "ticket.created"
	EventTicketCalled      = "ticket.called"
	EventTicketAttended    = "ticket.attended"
	EventTicketCompleted   = "ticket.completed"
	EventTicketCancelled   = "ticket.cancelled"
	EventTicketTransferred = "ticket.transferred"
	EventQueueUpdated      = "queue.updated"
)

// TicketCreatedEvent is emitted when a patient takes a new ticket
type TicketCreatedEvent struct {
	shared.BaseDomainEvent
	TicketNumber      string    `json:"ticket_number"`
	PatientID         uuid.UUID `json:"patient_id"`
	ServiceTypeID     uuid.UUID `json:"service_type_id"`
	Position          int       `json:"position"`
	EstimatedWaitTime int       `json:"estimated_wait_time"`
}

// NewTicketCreatedEvent creates a TicketCreatedEvent
func NewTicketCreatedEvent(t *Ticket) *TicketCreatedEvent {
	return &TicketCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTicketCreated, "Ticket", t.ID),
		TicketNumber:      t.TicketNumber,
		PatientID:         t.PatientID,
		ServiceTypeID:     t.ServiceTypeID,
		Position:          t.Position,
		EstimatedWaitTime: t.EstimatedWaitTime,
	}
}

// TicketCalledEvent is emitted when a station calls a waiting ticket
type TicketCalledEvent struct {
	shared.BaseDomainEvent
	TicketNumber  string    `json:"ticket_number"`
	ServiceTypeID uuid.UUID `json:"service_type_id"`
	StationID     uuid.UUID `json:"station_id"`
}

// NewTicketCalledEvent creates a TicketCalledEvent
func NewTicketCalledEvent(t *Ticket, stationID uuid.UUID) *TicketCalledEvent {
	return &TicketCalledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTicketCalled, "Ticket", t.ID),
		TicketNumber:    t.TicketNumber,
		ServiceTypeID:   t.ServiceTypeID,
		StationID:       stationID,
	}
}

// TicketAttendedEvent is emitted when attention starts
type TicketAttendedEvent struct {
	shared.BaseDomainEvent
	TicketNumber  string    `json:"ticket_number"`
	ServiceTypeID uuid.UUID `json:"service_type_id"`
}

// NewTicketAttendedEvent creates a TicketAttendedEvent
func NewTicketAttendedEvent(t *Ticket) *TicketAttendedEvent {
	return &TicketAttendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTicketAttended, "Ticket", t.ID),
		TicketNumber:    t.TicketNumber,
		ServiceTypeID:   t.ServiceTypeID,
	}
}

// TicketCompletedEvent is emitted when attention finishes
type TicketCompletedEvent struct {
	shared.BaseDomainEvent
	TicketNumber  string    `json:"ticket_number"`
	ServiceTypeID uuid.UUID `json:"service_type_id"`
}

// NewTicketCompletedEvent creates a TicketCompletedEvent
func NewTicketCompletedEvent(t *Ticket) *TicketCompletedEvent {
	return &TicketCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTicketCompleted, "Ticket", t.ID),
		TicketNumber:    t.TicketNumber,
		ServiceTypeID:   t.ServiceTypeID,
	}
}

// TicketCancelledEvent is emitted for cancellations and no-shows
type TicketCancelledEvent struct {
	shared.BaseDomainEvent
	TicketNumber  string    `json:"ticket_number"`
	ServiceTypeID uuid.UUID `json:"service_type_id"`
	NoShow        bool      `json:"no_show"`
}

// NewTicketCancelledEvent creates a TicketCancelledEvent
func NewTicketCancelledEvent(t *Ticket, noShow bool) *TicketCancelledEvent {
	return &TicketCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTicketCancelled, "Ticket", t.ID),
		TicketNumber:    t.TicketNumber,
		ServiceTypeID:   t.ServiceTypeID,
		NoShow:          noShow,
	}
}

// TicketTransferredEvent is emitted when a ticket changes service queues
type TicketTransferredEvent struct {
	shared.BaseDomainEvent
	TicketNumber  string    `json:"ticket_number"`
	FromServiceID uuid.UUID `json:"from_service_id"`
	ToServiceID   uuid.UUID `json:"to_service_id"`
}

// NewTicketTransferredEvent creates a TicketTransferredEvent
func NewTicketTransferredEvent(t *Ticket, fromServiceID, toServiceID uuid.UUID) *TicketTransferredEvent {
	return &TicketTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTicketTransferred, "Ticket", t.ID),
		TicketNumber:    t.TicketNumber,
		FromServiceID:   fromServiceID,
		ToServiceID:     toServiceID,
	}
}

// QueueUpdatedEvent is emitted whenever a queue snapshot changes
type QueueUpdatedEvent struct {
	shared.BaseDomainEvent
	ServiceTypeID   uuid.UUID  `json:"service_type_id"`
	StationID       *uuid.UUID `json:"station_id,omitempty"`
	QueueLength     int        `json:"queue_length"`
	CurrentTicketID *uuid.UUID `json:"current_ticket_id,omitempty"`
	AverageWaitTime int        `json:"average_wait_time"`
}

// NewQueueUpdatedEvent creates a QueueUpdatedEvent
func NewQueueUpdatedEvent(q *QueueState) *QueueUpdatedEvent {
	return &QueueUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventQueueUpdated, "QueueState", q.ID),
		ServiceTypeID:   q.ServiceTypeID,
		StationID:       q.StationID,
		QueueLength:     q.QueueLength,
		CurrentTicketID: q.CurrentTicketID,
		AverageWaitTime: q.AverageWaitTime,
	}
}
