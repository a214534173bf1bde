package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/notification"
)

// NotificationListFilter contains query parameters for listing notifications
type NotificationListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING SENT FAILED"`
	Type     string `form:"type" binding:"omitempty,oneof=CALL REMINDER TRANSFER"`
}

// NotificationResponse is the API representation of a notification log entry
type NotificationResponse struct {
	ID           uuid.UUID  `json:"id"`
	TicketID     uuid.UUID  `json:"ticket_id"`
	Type         string     `json:"type"`
	Recipient    string     `json:"recipient,omitempty"`
	Message      string     `json:"message"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToNotificationResponse converts a domain notification log to its response DTO
func ToNotificationResponse(log *notification.NotificationLog) NotificationResponse {
	return NotificationResponse{
		ID:           log.ID,
		TicketID:     log.TicketID,
		Type:         string(log.Type),
		Recipient:    log.Recipient,
		Message:      log.Message,
		Status:       string(log.Status),
		ErrorMessage: log.ErrorMessage,
		SentAt:       log.SentAt,
		CreatedAt:    log.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of notification logs
func ToNotificationResponses(logs []notification.NotificationLog) []NotificationResponse {
	responses := make([]NotificationResponse, len(logs))
	for i := range logs {
		responses[i] = ToNotificationResponse(&logs[i])
	}
	return responses
}
