package ws

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Hub tracks connected clients and which conversations each is
// watching. Broadcast is best effort, a slow client drops frames
// instead of blocking the sender.
type Hub struct {
	clients map[string]*Client
	rooms   map[string]map[string]bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]bool),
	}
}

// AddClient registers the user's connection. A newer connection from the
// same user replaces the old one, whose queue is closed so its WritePump
// exits.
func (h *Hub) AddClient(userID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok && old != c {
		old.close()
	}
	h.clients[userID] = c
}

// RemoveClient unregisters the connection. A stale connection that was
// already replaced only closes itself and leaves the current one intact.
func (h *Hub) RemoveClient(userID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.close()
	if h.clients[userID] != c {
		return
	}
	delete(h.clients, userID)
	for _, members := range h.rooms {
		delete(members, userID)
	}
}

func (h *Hub) Subscribe(conversationID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[conversationID]; !ok {
		h.rooms[conversationID] = make(map[string]bool)
	}
	h.rooms[conversationID][userID] = true
}

func (h *Hub) Unsubscribe(conversationID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[conversationID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(h.rooms, conversationID)
		}
	}
}

func (h *Hub) Broadcast(conversationID string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members, ok := h.rooms[conversationID]
	if !ok {
		return
	}
	for userID := range members {
		if client, ok := h.clients[userID]; ok {
			client.Send(payload)
		}
	}
}

// Client wraps one websocket connection with a buffered outbound queue.
type Client struct {
	UserID string
	Conn   *websocket.Conn

	once sync.Once
	send chan any
	done chan struct{}
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		send:   make(chan any, 16),
		done:   make(chan struct{}),
	}
}

func (c *Client) Send(msg any) {
	select {
	case c.send <- msg:
	default:
		// drop if blocked
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// WritePump drains the outbound queue onto the wire. Runs until the
// client is closed or the write fails.
func (c *Client) WritePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.Conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
