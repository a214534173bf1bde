package queueing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

// Ticket lifecycle states. Transitions only move forward:
// WAITING -> CALLED -> IN_PROGRESS -> COMPLETED, with CANCELLED and
// NO_SHOW as terminal exits. Transfer is the single backward move
// (IN_PROGRESS -> CALLED) when a ticket changes queues.
const (
	TicketStatusWaiting    TicketStatus = "WAITING"
	TicketStatusCalled     TicketStatus = "CALLED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
	TicketStatusNoShow     TicketStatus = "NO_SHOW"
)

// ActiveStatuses are the states in which a ticket still occupies its queue
func ActiveStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusWaiting, TicketStatusCalled, TicketStatusInProgress}
}

// Ticket represents a patient's numbered turn in a service queue
type Ticket struct {
	shared.BaseAggregateRoot
	TicketNumber      string       `gorm:"type:varchar(10);not null;index:idx_tickets_number_day"`
	PatientID         uuid.UUID    `gorm:"type:uuid;not null;index"`
	ServiceTypeID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	StationID         *uuid.UUID   `gorm:"type:uuid;index"`
	Status            TicketStatus `gorm:"type:varchar(20);not null;index"`
	Position          int          `gorm:"not null"`
	Priority          int          `gorm:"not null;default:3"`
	EstimatedWaitTime int          `gorm:"not null;default:0"`
	Notes             string       `gorm:"type:text"`
	CalledAt          *time.Time
	AttendedAt        *time.Time
	CompletedAt       *time.Time
}

// TableName returns the database table name
func (Ticket) TableName() string {
	return "tickets"
}

// NewTicket creates a waiting ticket at the given queue position.
// The ticket number is the service prefix plus a zero-padded daily sequence.
func NewTicket(patientID, serviceTypeID uuid.UUID, prefix string, sequence, position, priority, estimatedWaitMinutes int) (*Ticket, error) {
	if patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Ticket requires a patient")
	}
	if serviceTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SERVICE_TYPE", "Ticket requires a service type")
	}
	if position < 1 {
		return nil, shared.NewDomainError("INVALID_POSITION", "Queue position must be positive")
	}
	if sequence < 1 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Ticket sequence must be positive")
	}

	t := &Ticket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TicketNumber:      FormatTicketNumber(prefix, sequence),
		PatientID:         patientID,
		ServiceTypeID:     serviceTypeID,
		Status:            TicketStatusWaiting,
		Position:          position,
		Priority:          priority,
		EstimatedWaitTime: estimatedWaitMinutes,
	}

	t.AddDomainEvent(NewTicketCreatedEvent(t))
	return t, nil
}

// FormatTicketNumber renders a display number such as A001
func FormatTicketNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s%03d", prefix, sequence)
}

// IsActive reports whether the ticket still occupies its queue
func (t *Ticket) IsActive() bool {
	switch t.Status {
	case TicketStatusWaiting, TicketStatusCalled, TicketStatusInProgress:
		return true
	}
	return false
}

// Call moves a waiting ticket to CALLED and assigns the calling station
func (t *Ticket) Call(stationID uuid.UUID) error {
	if t.Status != TicketStatusWaiting {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Ticket %s cannot be called from status %s", t.TicketNumber, t.Status))
	}
	now := time.Now()
	t.Status = TicketStatusCalled
	t.StationID = &stationID
	t.CalledAt = &now
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTicketCalledEvent(t, stationID))
	return nil
}

// Attend moves a called ticket to IN_PROGRESS
func (t *Ticket) Attend() error {
	if t.Status != TicketStatusCalled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Ticket %s cannot be attended from status %s", t.TicketNumber, t.Status))
	}
	now := time.Now()
	t.Status = TicketStatusInProgress
	t.AttendedAt = &now
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTicketAttendedEvent(t))
	return nil
}

// Complete finishes an in-progress ticket
func (t *Ticket) Complete(notes string) error {
	if t.Status != TicketStatusInProgress {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Ticket %s cannot be completed from status %s", t.TicketNumber, t.Status))
	}
	now := time.Now()
	t.Status = TicketStatusCompleted
	t.CompletedAt = &now
	if notes != "" {
		t.Notes = notes
	}
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTicketCompletedEvent(t))
	return nil
}

// Cancel aborts an active ticket
func (t *Ticket) Cancel(reason string) error {
	if !t.IsActive() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Ticket %s cannot be cancelled from status %s", t.TicketNumber, t.Status))
	}
	now := time.Now()
	t.Status = TicketStatusCancelled
	t.CompletedAt = &now
	if reason != "" {
		t.Notes = reason
	}
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTicketCancelledEvent(t, false))
	return nil
}

// MarkNoShow records that a called patient never appeared
func (t *Ticket) MarkNoShow() error {
	if t.Status != TicketStatusCalled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Ticket %s cannot be marked no-show from status %s", t.TicketNumber, t.Status))
	}
	now := time.Now()
	t.Status = TicketStatusNoShow
	t.CompletedAt = &now
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTicketCancelledEvent(t, true))
	return nil
}

// TransferTo moves an active ticket to the tail of another service queue.
// An in-progress ticket drops back to CALLED and loses its attention time;
// the ticket number is preserved so the patient keeps their slip.
func (t *Ticket) TransferTo(serviceTypeID uuid.UUID, newPosition int) error {
	if !t.IsActive() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Ticket %s cannot be transferred from status %s", t.TicketNumber, t.Status))
	}
	if serviceTypeID == t.ServiceTypeID {
		return shared.NewDomainError("INVALID_INPUT", "Ticket is already queued for that service")
	}
	if newPosition < 1 {
		return shared.NewDomainError("INVALID_POSITION", "Queue position must be positive")
	}

	fromService := t.ServiceTypeID
	if t.Status == TicketStatusInProgress {
		t.Status = TicketStatusCalled
		t.AttendedAt = nil
	}
	t.ServiceTypeID = serviceTypeID
	t.Position = newPosition
	t.StationID = nil
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTicketTransferredEvent(t, fromService, serviceTypeID))
	return nil
}

// UpdatePosition reassigns the queue position during renumbering
func (t *Ticket) UpdatePosition(position int) error {
	if position < 1 {
		return shared.NewDomainError("INVALID_POSITION", "Queue position must be positive")
	}
	t.Position = position
	t.Touch()
	return nil
}

// ActualWaitTime returns the minutes the patient waited before being called
func (t *Ticket) ActualWaitTime() *int {
	if t.CalledAt == nil {
		return nil
	}
	minutes := int(t.CalledAt.Sub(t.CreatedAt).Minutes())
	return &minutes
}

// ServiceTime returns the minutes spent attending the ticket
func (t *Ticket) ServiceTime() *int {
	if t.AttendedAt == nil || t.CompletedAt == nil {
		return nil
	}
	minutes := int(t.CompletedAt.Sub(*t.AttendedAt).Minutes())
	return &minutes
}
