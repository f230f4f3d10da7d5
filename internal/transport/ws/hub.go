// Package ws pushes notifications to connected recipients over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
)

// Message is the JSON frame sent for every notification.
type Message struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// Hub tracks open connections per recipient and fans events out to them.
// It is a notification bus observer.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	closed  bool
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Name implements notify.Observer.
func (h *Hub) Name() string { return "push" }

// Deliver implements notify.Observer. Recipients without open connections are skipped;
// a client whose send buffer is full is disconnected.
func (h *Hub) Deliver(_ context.Context, ev notification.Event) error {
	b, err := json.Marshal(Message{
		Type:      "notification",
		ID:        ev.ID(),
		Message:   ev.Message(),
		CreatedAt: ev.CreatedAt().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode push message: %w", err)
	}

	// Sends happen under the read lock so unregister cannot close a channel mid-send.
	var slow []*Client
	h.mu.RLock()
	for c := range h.clients[ev.Recipient()] {
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.unregister(c)
	}
	if len(slow) > 0 {
		return fmt.Errorf("push to %s: %d slow clients dropped", ev.Recipient(), len(slow))
	}
	return nil
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// HealthCheck reports an error once the hub has been closed.
func (h *Hub) HealthCheck(_ context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return fmt.Errorf("push hub closed")
	}
	return nil
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for recipient, set := range h.clients {
		for c := range set {
			close(c.send)
			metrics.PushConnections.Dec()
		}
		delete(h.clients, recipient)
	}
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.recipient]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.recipient] = set
	}
	set[c] = struct{}{}
	metrics.PushConnections.Inc()
	h.logger.Debug("Push client connected", zap.String("recipient", c.recipient), zap.Int("recipient_clients", len(set)))
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.recipient]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.recipient)
	}
	close(c.send)
	metrics.PushConnections.Dec()
	h.logger.Debug("Push client disconnected", zap.String("recipient", c.recipient))
}
