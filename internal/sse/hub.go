package sse

import (
	"log"
	"sync"
)

// Event represents a Server-Sent Event.
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client.
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections. One user may hold several
// connections (multiple tabs), each with its own client entry.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

// Unregister removes a client and closes its event channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
	}
}

// Broadcast sends an event to all connected clients. Slow clients are
// skipped rather than blocking the sender.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			log.Printf("[SSE] client %s buffer full, dropping event", client.ID)
		}
	}
}

// SendToUser sends an event to every connection of one user.
func (h *Hub) SendToUser(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Events <- event:
		default:
			log.Printf("[SSE] client %s buffer full, dropping event", client.ID)
		}
	}
}
