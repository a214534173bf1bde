package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labqueue/backend/internal/domain/notification"
)

// DisplaySender delivers notifications by pushing them to the
// waiting-room display topic. It is the default transport for a
// laboratory that announces calls on screen rather than by SMS.
type DisplaySender struct {
	hub *Hub
}

// NewDisplaySender creates a sender bound to the given hub
func NewDisplaySender(hub *Hub) *DisplaySender {
	return &DisplaySender{hub: hub}
}

type displayNotification struct {
	TicketID string `json:"ticket_id"`
	Type     string `json:"notification_type"`
	Message  string `json:"message"`
}

// Send implements the notification transport by broadcasting the
// message to every connected display
func (s *DisplaySender) Send(_ context.Context, log *notification.NotificationLog) error {
	data, err := json.Marshal(displayNotification{
		TicketID: log.TicketID.String(),
		Type:     string(log.Type),
		Message:  log.Message,
	})
	if err != nil {
		return err
	}

	s.hub.Broadcast(TopicDisplay, Event{
		Type:      "notification",
		Timestamp: time.Now(),
		Data:      data,
	})
	return nil
}
