package notification

import (
	"encoding/json"
	"sync"
	"time"

	"dentalclinic/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 32
)

type client struct {
	userID uint
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans notification events out to every connected admin session.
// A single admin may hold several connections (tabs).
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish implements Publisher.
func (h *Hub) Publish(n *domain.Notification) {
	h.Broadcast(Event{Event: EventCreated, Notification: n})
}

// Broadcast queues the event on every connection and returns how many
// accepted it. Connections whose buffer is full are dropped.
func (h *Hub) Broadcast(event any) int {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal ws event", zap.Error(err))
		return 0
	}

	var slow []*client
	delivered := 0

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow ws client", zap.Uint("user_id", c.userID))
		h.unregister(c)
	}
	return delivered
}

// ServeWS registers conn and blocks until it disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, userID uint) {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	h.logger.Info("ws client connected", zap.Uint("user_id", userID))
	go h.writePump(c)
	h.readPump(c)
	h.logger.Info("ws client disconnected", zap.Uint("user_id", userID))
}

// Close disconnects everyone; later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump only services control frames; admins never send events.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
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
				h.logger.Debug("ws read", zap.Uint("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
