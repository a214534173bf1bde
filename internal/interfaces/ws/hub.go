// Package ws provides real-time queue updates over WebSockets. It
// implements a hub-and-spoke pattern where waiting-room displays,
// station consoles and admin dashboards subscribe to topics and receive
// queue events broadcast to those topics.
package ws

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Well-known topics. Station consoles additionally subscribe to
// "station:{uuid}" for calls directed at their own desk.
const (
	TopicDisplay = "display"
	TopicAdmin   = "admin"

	stationTopicPrefix = "station:"
)

// StationTopic returns the per-station topic name
func StationTopic(stationID string) string {
	return stationTopicPrefix + stationID
}

// Event is a real-time message pushed to subscribed clients
type Event struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ClientMessage is an inbound subscription command from a client
type ClientMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

// Client represents a single WebSocket connection. Authenticated is set
// once at connect time and gates runtime subscriptions to protected topics.
type Client struct {
	ID            string
	Topics        []string
	Authenticated bool
	Send          chan []byte
}

// TopicAllowed reports whether a client with the given authentication
// state may subscribe to a topic. The display topic is open; admin and
// per-station topics require a token.
func TopicAllowed(topic string, authenticated bool) bool {
	switch {
	case topic == TopicDisplay:
		return true
	case topic == TopicAdmin, strings.HasPrefix(topic, stationTopicPrefix):
		return authenticated
	}
	return false
}

// Hub tracks connected clients and their topic subscriptions. All
// operations are safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // topic -> subscribers
	all     map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub creates a hub ready to manage WebSocket clients
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client and subscribes it to its initial topics
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	for _, topic := range client.Topics {
		if h.clients[topic] == nil {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][client] = struct{}{}
	}

	h.logger.Debug("ws client registered",
		zap.String("client_id", client.ID),
		zap.Strings("topics", client.Topics),
	)
}

// Unregister removes a client from all topics and closes its send channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for _, topic := range client.Topics {
		if subscribers, ok := h.clients[topic]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.clients, topic)
			}
		}
	}

	delete(h.all, client)
	close(client.Send)

	h.logger.Debug("ws client unregistered", zap.String("client_id", client.ID))
}

// Subscribe adds topics to an already-registered client. Topics the
// client is not authorized for are dropped, and topics it already holds
// are not added twice.
func (h *Hub) Subscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current := make(map[string]struct{}, len(client.Topics))
	for _, t := range client.Topics {
		current[t] = struct{}{}
	}

	for _, topic := range topics {
		if !TopicAllowed(topic, client.Authenticated) {
			h.logger.Warn("ws subscription denied",
				zap.String("client_id", client.ID),
				zap.String("topic", topic),
			)
			continue
		}
		if _, ok := current[topic]; ok {
			continue
		}
		current[topic] = struct{}{}

		if h.clients[topic] == nil {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][client] = struct{}{}
		client.Topics = append(client.Topics, topic)
	}
}

// Unsubscribe removes topics from an already-registered client
func (h *Hub) Unsubscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removeSet := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		removeSet[t] = struct{}{}
	}

	for _, topic := range topics {
		if subscribers, ok := h.clients[topic]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.clients, topic)
			}
		}
	}

	remaining := make([]string, 0, len(client.Topics))
	for _, t := range client.Topics {
		if _, rm := removeSet[t]; !rm {
			remaining = append(remaining, t)
		}
	}
	client.Topics = remaining
}

// ProcessMessage dispatches an inbound client command
func (h *Hub) ProcessMessage(client *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		h.Subscribe(client, msg.Topics)
	case "unsubscribe":
		h.Unsubscribe(client, msg.Topics)
	}
}

// Broadcast sends an event to all clients subscribed to the given topic.
// A client whose send buffer is full is skipped, never blocked on.
func (h *Hub) Broadcast(topic string, event Event) {
	event.Topic = topic
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal ws event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[topic] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("ws client buffer full, dropping event",
				zap.String("client_id", client.ID),
				zap.String("topic", topic),
			)
		}
	}
}

// ClientCount returns the total number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// TopicCount returns the number of clients subscribed to a topic
func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
