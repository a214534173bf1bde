package ws

import (
	"context"
	"encoding/json"

	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Broadcaster forwards queueing domain events to WebSocket topics.
// Every event reaches the waiting-room display and the admin dashboard;
// ticket calls additionally reach the console of the calling station.
type Broadcaster struct {
	hub    *Hub
	logger *zap.Logger
}

// NewBroadcaster creates a broadcaster bound to the given hub
func NewBroadcaster(hub *Hub, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, logger: logger}
}

// EventTypes implements shared.EventHandler
func (b *Broadcaster) EventTypes() []string {
	return []string{
		queueing.EventTicketCreated,
		queueing.EventTicketCalled,
		queueing.EventTicketAttended,
		queueing.EventTicketCompleted,
		queueing.EventTicketCancelled,
		queueing.EventTicketTransferred,
		queueing.EventQueueUpdated,
	}
}

// Handle implements shared.EventHandler
func (b *Broadcaster) Handle(ctx context.Context, event shared.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("failed to marshal domain event for ws",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}

	wsEvent := Event{
		Type:      event.EventType(),
		Timestamp: event.OccurredAt(),
		Data:      data,
	}

	b.hub.Broadcast(TopicDisplay, wsEvent)
	b.hub.Broadcast(TopicAdmin, wsEvent)

	if called, ok := event.(*queueing.TicketCalledEvent); ok {
		b.hub.Broadcast(StationTopic(called.StationID.String()), wsEvent)
	}

	return nil
}

var _ shared.EventHandler = (*Broadcaster)(nil)
