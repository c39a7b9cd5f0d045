package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/dagbolade/proposal-box/internal/answer"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024
)

// WSMessage is pushed to connected admin pages
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const messageAnswerRecorded = "answer_recorded"

// Client represents a WebSocket client
type Client struct {
	id       string
	conn     *websocket.Conn
	send     chan WSMessage
	hub      *Hub
	closedMu sync.Mutex
	closed   bool
}

// Hub fans answer notifications out to admin pages
type Hub struct {
	mu           sync.RWMutex
	clients      map[*Client]bool
	broadcast    chan WSMessage
	register     chan *Client
	unregister   chan *Client
	done         chan struct{}
	shutdownOnce sync.Once
}

// NewHub creates a hub and starts its run loop
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan WSMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

// Shutdown closes every client connection and stops the hub
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		log.Info().Msg("shutting down websocket hub")
		close(h.done)

		h.mu.Lock()
		for client := range h.clients {
			client.safeClose()
			delete(h.clients, client)
		}
		h.mu.Unlock()
	})
}

// ClientCount returns the number of connected admin pages
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// run serializes registration, removal and broadcast
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Str("client_id", client.id).Int("total", total).Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.safeClose()
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Str("client_id", client.id).Int("total", total).Msg("client disconnected")

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if !client.trySend(message) {
					go h.drop(client)
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			return
		}
	}
}

// BroadcastAnswer tells admin pages that a new answer was recorded. It never
// blocks the caller.
func (h *Hub) BroadcastAnswer(choice answer.Choice, remoteSaved bool) {
	msg := WSMessage{
		Type: messageAnswerRecorded,
		Data: map[string]interface{}{
			"choice":       choice,
			"remote_saved": remoteSaved,
		},
	}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		log.Warn().Msg("websocket broadcast buffer full, notification dropped")
	}
}

// drop asks the run loop to forget c
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// trySend queues msg without blocking; false means the client fell behind
func (c *Client) trySend(msg WSMessage) bool {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()

	if c.closed {
		return true
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// safeClose closes the send channel and connection once
func (c *Client) safeClose() {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	close(c.send)
	_ = c.conn.Close()
}

// readPump only drains control frames; admin pages never send data.
func (c *Client) readPump() {
	defer c.hub.drop(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("websocket read error")
			}
			return
		}
	}
}

// writePump sends queued messages and keepalive pings to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
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

// WSHandler upgrades authenticated admin requests to websockets
type WSHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WebSocket handler
func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // the route sits behind token auth
			},
		},
	}
}

// HandleWebSocket upgrades the connection and registers the client
func (h *WSHandler) HandleWebSocket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return err
	}

	// Create client
	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan WSMessage, 16),
		hub:  h.hub,
	}

	// Register client
	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		_ = conn.Close()
		return nil
	}

	// Start client pumps
	go client.writePump()
	go client.readPump()

	return nil
}
