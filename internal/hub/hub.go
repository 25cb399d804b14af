package hub

import (
	"sync"

	"go.uber.org/zap"

	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/metrics"
	"github.com/stockpulse/newswire/pkg/models"
)

// Hub owns the set of connected subscribers and fans broadcasts out to
// all of them. Delivery is best-effort and non-blocking per subscriber:
// a client whose send buffer is full is evicted so it can never stall
// the others. There is no backfill, a client connected after a
// broadcast does not receive it.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates new fan-out hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a subscriber to the broadcast set
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.SubscribersConnected.Set(float64(count))

	logger.Info("client connected",
		zap.String("client_id", c.ID),
		zap.Int("subscribers", count),
	)
}

// Unregister removes a subscriber; safe to call more than once
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, present := h.clients[c]
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	if !present {
		return
	}

	c.close()
	metrics.SubscribersConnected.Set(float64(count))

	logger.Info("client disconnected",
		zap.String("client_id", c.ID),
		zap.Int("subscribers", count),
	)
}

// BroadcastEvent sends an enriched event to every subscriber
func (h *Hub) BroadcastEvent(ev models.Event) {
	env, err := models.NewEventEnvelope(ev)
	if err != nil {
		logger.Error("failed to encode event broadcast", zap.Error(err))
		return
	}
	h.broadcast(env)
}

// BroadcastAlert sends a trade alert to every subscriber
func (h *Hub) BroadcastAlert(alert models.Alert) {
	env, err := models.NewAlertEnvelope(alert)
	if err != nil {
		logger.Error("failed to encode alert broadcast", zap.Error(err))
		return
	}
	h.broadcast(env)
}

// broadcast delivers one envelope to all current subscribers.
// A subscriber with a saturated buffer is collected and evicted after
// the pass, never waited on.
func (h *Hub) broadcast(env models.Envelope) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- env:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	metrics.BroadcastsSent.WithLabelValues(env.Event).Inc()

	for _, c := range slow {
		logger.Warn("evicting slow subscriber",
			zap.String("client_id", c.ID),
		)
		metrics.SubscribersEvicted.Inc()
		h.Unregister(c)
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
