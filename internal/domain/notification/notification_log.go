package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// NotificationType classifies why a notification was produced
type NotificationType string

const (
	NotificationTypeCall     NotificationType = "CALL"
	NotificationTypeReminder NotificationType = "REMINDER"
	NotificationTypeTransfer NotificationType = "TRANSFER"
)

// NotificationStatus tracks delivery progress
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// NotificationLog records every notification produced for a ticket.
// Actual delivery transports hook in behind this log.
type NotificationLog struct {
	shared.BaseEntity
	TicketID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Type         NotificationType   `gorm:"type:varchar(20);not null"`
	Recipient    string             `gorm:"type:varchar(200);not null"`
	Message      string             `gorm:"type:text;not null"`
	Status       NotificationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ErrorMessage string             `gorm:"type:text"`
	SentAt       *time.Time
}

// TableName returns the database table name
func (NotificationLog) TableName() string {
	return "notification_logs"
}

// NewNotificationLog creates a pending notification entry
func NewNotificationLog(ticketID uuid.UUID, notifType NotificationType, recipient, message string) (*NotificationLog, error) {
	if ticketID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TICKET", "Notification requires a ticket")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Notification message cannot be empty")
	}
	return &NotificationLog{
		BaseEntity: shared.NewBaseEntity(),
		TicketID:   ticketID,
		Type:       notifType,
		Recipient:  recipient,
		Message:    message,
		Status:     NotificationStatusPending,
	}, nil
}

// MarkSent records successful delivery
func (n *NotificationLog) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
	n.Touch()
}

// MarkFailed records a delivery failure
func (n *NotificationLog) MarkFailed(reason string) {
	n.Status = NotificationStatusFailed
	n.ErrorMessage = reason
	n.Touch()
}

// NotificationLogRepository defines the persistence operations for notifications
type NotificationLogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*NotificationLog, error)
	FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]NotificationLog, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]NotificationLog, error)
	FindFailed(ctx context.Context, filter shared.Filter) ([]NotificationLog, error)
	Save(ctx context.Context, log *NotificationLog) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
