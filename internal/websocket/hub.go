package websocket

import (
	"bytes"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/civicengine/api/internal/model"
)

// Client represents a WebSocket subscriber to one job's updates.
type Client struct {
	JobID string
	Conn  *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

// trySend queues a message for the writer goroutine. It reports false
// and never blocks when the client was dropped or its buffer is full.
// Safe to call from any goroutine.
func (c *Client) trySend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// drop closes the send channel exactly once; later sends through
// trySend refuse instead of panicking.
func (c *Client) drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) dropped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Hub fans job state transitions out to every subscriber of that job.
// All deliveries for one job happen in the order they were broadcast;
// a subscriber joining mid-flight gets the current snapshot first.
type Hub struct {
	// Clients grouped by job ID
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	mu sync.Mutex
}

// BroadcastMessage represents a message to broadcast
type BroadcastMessage struct {
	JobID   string
	Message []byte
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.JobID] == nil {
				h.clients[client.JobID] = make(map[*Client]bool)
			}
			h.clients[client.JobID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.JobID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					client.drop()
					if len(clients) == 0 {
						delete(h.clients, client.JobID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			if clients, ok := h.clients[msg.JobID]; ok {
				for client := range clients {
					if !client.trySend(msg.Message) {
						// Slow consumer; drop it rather than stall
						// delivery to the others.
						client.drop()
						delete(clients, client)
					}
				}
				if len(clients) == 0 {
					delete(h.clients, msg.JobID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a new client. It returns after the hub accepted the
// client; every broadcast processed from then on reaches it.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client. Safe to call at any time, including
// after the job completed or the client was already dropped.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastStatus pushes a job's state transition to its subscribers.
// Jobs with no subscribers are a no-op.
func (h *Hub) BroadcastStatus(job *model.Job) {
	msg := model.StatusMessage(job)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal status message: %v", err)
		return
	}

	h.broadcast <- &BroadcastMessage{
		JobID:   job.ID,
		Message: data,
	}
}

// HandleConnection services a subscriber connection. The snapshot, when
// non-nil, is queued before registration so it is always the first
// message the subscriber sees. The snapshot was read before the client
// was registered, so a transition landing in that gap is missed; refresh
// re-reads the state after registration and is expected to return a
// terminal snapshot (or nil), since terminal transitions are the only
// ones no later broadcast would supersede.
func (h *Hub) HandleConnection(c *websocket.Conn, jobID string, snapshot []byte, refresh func() []byte) {
	client := &Client{
		JobID: jobID,
		Conn:  c,
		send:  make(chan []byte, 256),
	}

	if snapshot != nil {
		client.trySend(snapshot)
	}

	h.Register(client)
	defer h.Unregister(client)

	if refresh != nil {
		if msg := refresh(); msg != nil && !bytes.Equal(msg, snapshot) {
			client.trySend(msg)
		}
	}

	// Writer goroutine
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case message, ok := <-client.send:
				if !ok {
					c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}

			case <-ticker.C:
				// Keep-alive ping
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Reader loop
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg model.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.Type == model.WSMessageTypePing {
			pong := model.WSMessage{Type: model.WSMessageTypePong}
			data, _ := json.Marshal(pong)
			client.trySend(data)
		}
	}
}
