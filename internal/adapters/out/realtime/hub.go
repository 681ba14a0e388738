// Package realtime pushes events to connected websocket clients. Every client is
// subscribed to a fixed set of topics derived from its identity.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

var errHubStopped = errors.New("realtime hub is stopped")

// Frame is the JSON text message written to clients.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func encodeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	return json.Marshal(Frame{Event: event, Data: data})
}

// Hub keeps the topic subscriptions of the clients connected to this process.
// Run must be running for clients to register.
type Hub struct {
	topics     map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
	done       chan struct{}
	lock       sync.RWMutex
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		topics:     make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "realtime_hub"),
	}
}

// Run serves registrations until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.lock.Lock()
			for _, topic := range c.topics {
				if h.topics[topic] == nil {
					h.topics[topic] = make(map[*client]struct{})
				}
				h.topics[topic][c] = struct{}{}
			}
			h.lock.Unlock()
			h.logger.Debug("client registered", "user_id", c.userID)
		case c := <-h.unregister:
			h.remove(c)
			h.logger.Debug("client unregistered", "user_id", c.userID)
		case <-ctx.Done():
			h.lock.Lock()
			for _, subscribers := range h.topics {
				for c := range subscribers {
					c.closeOnce.Do(func() { close(c.send) })
				}
			}
			h.topics = make(map[string]map[*client]struct{})
			h.lock.Unlock()
			return nil
		}
	}
}

func (h *Hub) remove(c *client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for _, topic := range c.topics {
		subscribers := h.topics[topic]
		if _, ok := subscribers[c]; !ok {
			continue
		}
		delete(subscribers, c)
		if len(subscribers) == 0 {
			delete(h.topics, topic)
		}
	}
	c.closeOnce.Do(func() { close(c.send) })
}

// Publish delivers an event to the local subscribers of topic.
func (h *Hub) Publish(_ context.Context, topic, event string, payload any) error {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		return err
	}
	h.Deliver(topic, frame)
	return nil
}

// Deliver writes an encoded frame to the local subscribers of topic. Clients whose
// buffer is full miss the frame.
func (h *Hub) Deliver(topic string, frame []byte) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	for c := range h.topics[topic] {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn("slow client dropped a frame", "user_id", c.userID, "topic", topic)
		}
	}
}

// Subscribers counts the local clients of a topic.
func (h *Hub) Subscribers(topic string) int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.topics[topic])
}

// TopicsFor lists the topics a user receives: broadcast and the private topic for
// everyone, plus admin and tracking for admins.
func TopicsFor(actor kernel.Actor) []string {
	topics := []string{notification.BroadcastTopic, notification.UserTopic(actor.UserID())}
	if actor.IsAdmin() {
		topics = append(topics, notification.AdminTopic, notification.TrackingTopic)
	}
	return topics
}

// ServeWS upgrades the request and subscribes the connection for actor.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, actor kernel.Actor) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: actor.UserID().String(),
		topics: TopicsFor(actor),
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return errHubStopped
	case <-r.Context().Done():
		_ = conn.Close()
		return r.Context().Err()
	}

	go c.writePump()
	go c.readPump()
	return nil
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
	userID    string
	topics    []string
}

// readPump discards inbound messages and keeps the read deadline fresh on pongs.
// It unregisters the client once the connection fails.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket closed unexpectedly", "user_id", c.userID, "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
