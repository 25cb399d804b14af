package finnhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/stockpulse/newswire/internal/adapters/config"
	"github.com/stockpulse/newswire/internal/enrich"
	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/metrics"
	"github.com/stockpulse/newswire/pkg/models"
)

const (
	newsTopic = "news"

	reconnectMin = 1 * time.Second
	reconnectMax = 60 * time.Second
)

// Adapter maintains a persistent websocket connection to the Finnhub
// streaming venue, subscribes to the news topic and emits one canonical
// event per inbound message. Malformed payloads are logged and dropped.
// On connection loss the adapter reconnects with bounded exponential
// backoff.
type Adapter struct {
	wsURL    string
	enricher *enrich.Enricher
	events   chan<- models.Event
	dialer   *websocket.Dialer
}

// wsMessage is the vendor shape; data may be an array, an object, or
// missing entirely, and all three must be tolerated
type wsMessage struct {
	Data json.RawMessage `json:"data"`
}

// NewAdapter creates new push-feed adapter
func NewAdapter(cfg *config.FinnhubConfig, enricher *enrich.Enricher, events chan<- models.Event) *Adapter {
	return &Adapter{
		wsURL:    fmt.Sprintf("%s?token=%s", cfg.WSURL, cfg.APIKey),
		enricher: enricher,
		events:   events,
		dialer:   websocket.DefaultDialer,
	}
}

// Start runs the connect/read/reconnect loop until ctx is canceled.
// It blocks, callers run it in a goroutine.
func (a *Adapter) Start(ctx context.Context) {
	delay := reconnectMin

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := a.connect(ctx)
		if err != nil {
			logger.Error("finnhub connect failed",
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
		} else {
			delay = reconnectMin
			a.readLoop(ctx, conn)
			conn.Close()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > reconnectMax {
			delay = reconnectMax
		}
	}
}

// connect dials the venue and performs the news subscribe handshake
func (a *Adapter) connect(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := a.dialer.DialContext(ctx, a.wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial finnhub: %w", err)
	}

	sub := map[string]string{
		"type":  "subscribe",
		"topic": newsTopic,
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	logger.Info("finnhub websocket connected",
		zap.String("topic", newsTopic),
	)

	return conn, nil
}

// readLoop consumes messages until the connection errors or ctx ends
func (a *Adapter) readLoop(ctx context.Context, conn *websocket.Conn) {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("finnhub read error", zap.Error(err))
			}
			return
		}

		a.handleMessage(ctx, raw)
	}
}

// handleMessage parses one inbound payload and emits exactly one event.
// A payload that is not JSON at all is dropped, never crashes the
// adapter.
func (a *Adapter) handleMessage(ctx context.Context, raw []byte) {
	headline, err := extractHeadline(raw)
	if err != nil {
		metrics.EventsDropped.WithLabelValues(string(models.SourceFinnhub)).Inc()
		logger.Warn("dropping malformed finnhub payload", zap.Error(err))
		return
	}

	tickers, sent := a.enricher.Enrich(headline)

	ev := models.Event{
		Source:     models.SourceFinnhub,
		Title:      headline,
		Content:    headline,
		Tickers:    tickers,
		Sentiment:  sent,
		ReceivedAt: time.Now().UTC(),
	}

	select {
	case a.events <- ev:
		metrics.EventsIngested.WithLabelValues(string(models.SourceFinnhub)).Inc()
	case <-ctx.Done():
	}
}

// extractHeadline pulls a headline out of a vendor payload. The happy
// path is {data: [{headline: "..."}...]}; an unexpected shape falls
// back to the JSON text of the nearest sensible fragment.
func extractHeadline(raw []byte) (string, error) {
	var msg wsMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", fmt.Errorf("not a JSON object: %w", err)
	}

	if len(msg.Data) == 0 || string(msg.Data) == "null" {
		return compact(raw), nil
	}

	if msg.Data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(msg.Data, &items); err != nil {
			return "", fmt.Errorf("bad data array: %w", err)
		}
		if len(items) == 0 {
			return compact(msg.Data), nil
		}

		var first struct {
			Headline string `json:"headline"`
		}
		if err := json.Unmarshal(items[0], &first); err == nil && first.Headline != "" {
			return first.Headline, nil
		}
		return compact(items[0]), nil
	}

	// Non-array data, stringify it as-is
	return compact(msg.Data), nil
}

// compact renders a JSON fragment as a single-line string fallback
func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
