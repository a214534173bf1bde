package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labqueue/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Displays and kiosks connect from arbitrary origins on the
		// laboratory LAN; origin filtering happens at the proxy.
		return true
	},
}

// Handler upgrades HTTP connections to WebSocket and routes clients
// into the hub. The display topic is open; station and admin topics
// require an authenticated token carried via OptionalJWTAuthMiddleware.
type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

// NewHandler creates a new WebSocket handler bound to the given hub
func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// Connect godoc
// @Summary      Open a WebSocket subscription for live queue updates
// @Tags         ws
// @Router       /ws [get]
func (h *Handler) Connect(c *gin.Context) {
	topics, err := h.resolveTopics(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"code": "ERR_FORBIDDEN", "message": err.Error()},
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		ID:            uuid.New().String(),
		Topics:        topics,
		Authenticated: middleware.GetJWTClaims(c) != nil,
		Send:          make(chan []byte, sendBufferSize),
	}

	h.hub.Register(client)

	go h.writePump(client, conn)
	go h.readPump(client, conn)
}

// Stats godoc
// @Summary      Connected WebSocket client counts
// @Tags         ws
// @Router       /ws/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"clients": h.hub.ClientCount(),
		"display": h.hub.TopicCount(TopicDisplay),
		"admin":   h.hub.TopicCount(TopicAdmin),
	})
}

// resolveTopics parses the requested topics from the query string and
// enforces that protected topics are backed by a valid token.
func (h *Handler) resolveTopics(c *gin.Context) ([]string, error) {
	raw := c.Query("topics")
	if raw == "" {
		return []string{TopicDisplay}, nil
	}

	claims := middleware.GetJWTClaims(c)
	topics := make([]string, 0, 4)
	for _, topic := range strings.Split(raw, ",") {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		switch {
		case topic == TopicDisplay:
		case topic == TopicAdmin:
			if claims == nil {
				return nil, errForbiddenTopic(topic)
			}
		case strings.HasPrefix(topic, stationTopicPrefix):
			if claims == nil {
				return nil, errForbiddenTopic(topic)
			}
		default:
			return nil, errUnknownTopic(topic)
		}
		topics = append(topics, topic)
	}

	if len(topics) == 0 {
		topics = append(topics, TopicDisplay)
	}
	return topics, nil
}

type topicError struct {
	msg string
}

func (e *topicError) Error() string { return e.msg }

func errForbiddenTopic(topic string) error {
	return &topicError{msg: "topic requires authentication: " + topic}
}

func errUnknownTopic(topic string) error {
	return &topicError{msg: "unknown topic: " + topic}
}

// readPump consumes subscription commands until the connection drops
func (h *Handler) readPump(client *Client, conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("ws read error", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue // ignore malformed frames
		}
		h.hub.ProcessMessage(client, msg)
	}
}

// writePump drains the send channel and keeps the connection alive
// with periodic pings
func (h *Handler) writePump(client *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
