package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/models"
)

const (
	// sendBuffer bounds how far a subscriber may lag before eviction
	sendBuffer = 64

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Client is one live subscriber connection. Topic joins are tracked
// per connection but do not gate delivery: every broadcast goes to
// every connection.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan models.Envelope

	topicsMu sync.Mutex
	topics   map[string]struct{}

	closeOnce sync.Once
}

// NewClient creates a subscriber for an upgraded websocket connection
func NewClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		hub:    h,
		conn:   conn,
		send:   make(chan models.Envelope, sendBuffer),
		topics: make(map[string]struct{}),
	}
}

// Run registers the client and pumps messages until the connection
// drops. It blocks for the connection lifetime.
func (c *Client) Run() {
	c.hub.Register(c)

	go c.writePump()
	c.readPump()
}

// Join adds the connection to a named topic group
func (c *Client) Join(topic string) {
	if topic == "" {
		return
	}

	c.topicsMu.Lock()
	c.topics[topic] = struct{}{}
	c.topicsMu.Unlock()

	logger.Debug("client joined topic",
		zap.String("client_id", c.ID),
		zap.String("topic", topic),
	)
}

// Topics returns the topics this connection has joined
func (c *Client) Topics() []string {
	c.topicsMu.Lock()
	defer c.topicsMu.Unlock()

	topics := make([]string, 0, len(c.topics))
	for t := range c.topics {
		topics = append(topics, t)
	}
	return topics
}

// readPump consumes inbound control messages until the connection
// errors, then unregisters the client
func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("client read error",
					zap.String("client_id", c.ID),
					zap.Error(err),
				)
			}
			return
		}

		var req models.SubscribeRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			logger.Debug("ignoring malformed control message",
				zap.String("client_id", c.ID),
				zap.Error(err),
			)
			continue
		}

		if req.Event == "subscribeTopic" {
			c.Join(req.Topic)
		}
	}
}

// writePump drains the send buffer to the connection and keeps the
// connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub evicted the client
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(env); err != nil {
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

// close releases the send channel exactly once
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
