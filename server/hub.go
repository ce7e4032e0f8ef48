package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client represents a connected WebSocket client. Every client views the
// human seat of the single table.
type Client struct {
	ID   uuid.UUID
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// NewClient wraps an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// Hub manages all WebSocket connections
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Unregister chan *Client
	Incoming   chan *ClientMessageWithSender
	logger     *zap.Logger
	mu         sync.RWMutex
}

// ClientMessageWithSender pairs a message with its sender
type ClientMessageWithSender struct {
	Client  *Client
	Message ClientMessage
}

// NewHub creates a new Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 256),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessageWithSender, 256),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				h.logger.Info("client disconnected", zap.String("client_id", client.ID.String()))
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					h.logger.Warn("dropping slow client", zap.String("client_id", client.ID.String()))
					close(client.Send)
					delete(h.Clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Add registers a client. It returns once the client receives broadcasts.
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	h.Clients[client] = true
	h.mu.Unlock()
	h.logger.Info("client connected", zap.String("client_id", client.ID.String()))
}

// SendToClient sends a message to a specific client
func (h *Hub) SendToClient(client *Client, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("error marshaling message", zap.Error(err))
		return
	}

	// Send is closed once the client is unregistered
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.Clients[client] {
		return
	}
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("client send buffer full", zap.String("client_id", client.ID.String()))
	}
}

// BroadcastMessage sends a message to all clients
func (h *Hub) BroadcastMessage(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("error marshaling broadcast", zap.Error(err))
		return
	}
	h.Broadcast <- data
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// ReadPump decodes client frames into Hub.Incoming until the connection drops
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		err := c.Conn.ReadJSON(&msg)
		if err == nil {
			c.Hub.Incoming <- &ClientMessageWithSender{Client: c, Message: msg}
			continue
		}

		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			c.Hub.logger.Warn("malformed client message", zap.String("client_id", c.ID.String()), zap.Error(err))
			c.Hub.SendToClient(c, NewErrorMessage("bad_message", "Malformed message"))
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			c.Hub.logger.Warn("websocket closed unexpectedly", zap.String("client_id", c.ID.String()), zap.Error(err))
		}
		return
	}
}

// WritePump drains Send to the connection and keeps it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
