package sse

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bookswap/bookswap/internal/domain/notification"
)

// Hub manages notification stream clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*notification.PushClient
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*notification.PushClient),
	}
}

func (h *Hub) Register(client *notification.PushClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ClientID] = client
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.Close()
		delete(h.clients, clientID)
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) BroadcastToUser(userID uuid.UUID, message *notification.PushMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.UserID == userID {
			trySend(c, message)
		}
	}
}

func (h *Hub) SendToClient(clientID string, message *notification.PushMessage) error {
	h.mu.RLock()
	c := h.clients[clientID]
	h.mu.RUnlock()
	if c == nil {
		return notification.ErrClientNotFound
	}
	if !trySend(c, message) {
		return notification.ErrChannelFull
	}
	return nil
}

func (h *Hub) Start(ctx context.Context) {
	_ = ctx
}

func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

func trySend(c *notification.PushClient, msg *notification.PushMessage) bool {
	select {
	case c.MessageChan <- msg:
		return true
	default:
		return false
	}
}
