package hub

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testClient builds a client that is not attached to a websocket, so
// tests read deliveries straight from the send buffer
func testClient(h *Hub) *Client {
	return NewClient(h, nil)
}

func makeEvent(title string) models.Event {
	return models.Event{
		Source:  models.SourceFinnhub,
		Title:   title,
		Tickers: []string{},
	}
}

func TestHub_BroadcastOrdering(t *testing.T) {
	h := NewHub()
	c := testClient(h)
	h.Register(c)

	const n = 10
	for i := 0; i < n; i++ {
		h.BroadcastEvent(makeEvent(fmt.Sprintf("headline %d", i)))
	}

	for i := 0; i < n; i++ {
		select {
		case env := <-c.send:
			if env.Event != models.MessageNewsEvent {
				t.Fatalf("expected %s envelope, got %s", models.MessageNewsEvent, env.Event)
			}
			want := fmt.Sprintf("headline %d", i)
			if got := string(env.Data); !strings.Contains(got, want) {
				t.Errorf("delivery %d out of order: payload %s does not contain %q", i, got, want)
			}
		default:
			t.Fatalf("expected %d deliveries, got %d", n, i)
		}
	}
}

func TestHub_NoBackfillForLateSubscriber(t *testing.T) {
	h := NewHub()

	early := testClient(h)
	h.Register(early)

	h.BroadcastEvent(makeEvent("before join"))

	late := testClient(h)
	h.Register(late)

	h.BroadcastEvent(makeEvent("after join"))

	if got := len(early.send); got != 2 {
		t.Errorf("early subscriber expected 2 deliveries, got %d", got)
	}
	if got := len(late.send); got != 1 {
		t.Errorf("late subscriber expected 1 delivery, got %d", got)
	}
}

func TestHub_SlowSubscriberEvicted(t *testing.T) {
	h := NewHub()

	slow := testClient(h)
	fast := testClient(h)
	h.Register(slow)
	h.Register(fast)

	// Saturate the slow client's buffer, then one more broadcast must
	// evict it without stalling the fast client
	for i := 0; i < sendBuffer+1; i++ {
		h.BroadcastEvent(makeEvent(fmt.Sprintf("headline %d", i)))
		// Keep the fast client drained
		<-fast.send
	}

	if h.ClientCount() != 1 {
		t.Errorf("expected slow client evicted, %d clients remain", h.ClientCount())
	}

	// Eviction closes the send channel once the buffer is drained
	closed := false
	for i := 0; i <= sendBuffer+1; i++ {
		if _, ok := <-slow.send; !ok {
			closed = true
			break
		}
	}
	if !closed {
		t.Error("expected slow client send channel closed after eviction")
	}
}

func TestHub_UnregisterIdempotent(t *testing.T) {
	h := NewHub()
	c := testClient(h)
	h.Register(c)

	h.Unregister(c)
	h.Unregister(c) // must not panic on double close

	if h.ClientCount() != 0 {
		t.Errorf("expected empty hub, got %d clients", h.ClientCount())
	}
}

func TestHub_BroadcastAlert(t *testing.T) {
	h := NewHub()
	c := testClient(h)
	h.Register(c)

	h.BroadcastAlert(models.Alert{
		Action:    models.ActionBuy,
		Tickers:   []string{"RELIANCE.NS"},
		Title:     "Reliance shares jump on strong earnings",
		Sentiment: 0.66,
	})

	env := <-c.send
	if env.Event != models.MessageTradeAlert {
		t.Errorf("expected %s envelope, got %s", models.MessageTradeAlert, env.Event)
	}
}

func TestClient_TopicJoinDoesNotGateDelivery(t *testing.T) {
	h := NewHub()

	joined := testClient(h)
	joined.Join("stock_alerts")
	h.Register(joined)

	plain := testClient(h)
	h.Register(plain)

	h.BroadcastEvent(makeEvent("delivered to everyone"))

	if len(joined.send) != 1 || len(plain.send) != 1 {
		t.Errorf("topic join must not gate delivery: joined=%d plain=%d",
			len(joined.send), len(plain.send))
	}

	topics := joined.Topics()
	if len(topics) != 1 || topics[0] != "stock_alerts" {
		t.Errorf("expected tracked topic [stock_alerts], got %v", topics)
	}
}
