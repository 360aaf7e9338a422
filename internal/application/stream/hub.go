package stream

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"go-todo/internal/domain/gateway/notify"
	"go-todo/internal/domain/model"
	"go-todo/pkg/log"
)

// Hub tracks the stream clients of every session
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.sessionID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.sessionID] = set
	}
	set[client] = struct{}{}
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.sessionID)
	}
}

// Broadcast queues a frame for every client of a session
func (h *Hub) Broadcast(sessionID string, messageType MessageType, data interface{}) {
	payload, err := encode(messageType, data)
	if err != nil {
		log.Error("failed to encode stream message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[sessionID] {
		client.enqueue(payload)
	}
}

// Clients returns the number of connected clients of a session
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Notifier forwards a session's notifications to its stream clients
func (h *Hub) Notifier(sessionID string) notify.Notifier {
	return notify.NotifierFunc(func(ctx context.Context, notification model.Notification) {
		h.Broadcast(sessionID, MessageNotification, notification)
	})
}
