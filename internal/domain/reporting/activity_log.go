package reporting

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// Activity actions written by the application layer
const (
	ActionTicketCreated     = "ticket_created"
	ActionTicketCalled      = "ticket_called"
	ActionTicketAttended    = "ticket_attended"
	ActionTicketCompleted   = "ticket_completed"
	ActionTicketCancelled   = "ticket_cancelled"
	ActionTicketNoShow      = "ticket_no_show"
	ActionTicketTransferred = "ticket_transferred"
	ActionQueueAdvanced     = "queue_advanced"
	ActionQueueReset        = "queue_reset"
	ActionUserLogin         = "user_login"
	ActionUserLogout        = "user_logout"
)

// ActivityLog is an append-only audit record of operator actions
type ActivityLog struct {
	shared.BaseEntity
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	TicketID  *uuid.UUID `gorm:"type:uuid;index"`
	StationID *uuid.UUID `gorm:"type:uuid;index"`
	Action    string     `gorm:"type:varchar(50);not null;index"`
	Details   string     `gorm:"type:text"`
	IPAddress string     `gorm:"type:varchar(45)"`
	UserAgent string     `gorm:"type:varchar(300)"`
}

// TableName returns the database table name
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// NewActivityLog creates an audit entry
func NewActivityLog(action string, userID, ticketID, stationID *uuid.UUID, details, ipAddress, userAgent string) (*ActivityLog, error) {
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Activity action cannot be empty")
	}
	return &ActivityLog{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		TicketID:   ticketID,
		StationID:  stationID,
		Action:     action,
		Details:    details,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}, nil
}

// ActivityLogRepository defines the persistence operations for audit entries
type ActivityLogRepository interface {
	Save(ctx context.Context, log *ActivityLog) error
	FindAll(ctx context.Context, filter shared.Filter) ([]ActivityLog, error)
	FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]ActivityLog, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
