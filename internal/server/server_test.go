package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stockpulse/newswire/internal/hub"
	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestServer() (*Server, *hub.Hub, *httptest.Server) {
	h := hub.NewHub()
	s := New(0, h)
	ts := httptest.NewServer(s.srv.Handler)
	return s, h, ts
}

func TestServer_Root(t *testing.T) {
	_, _, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServer_Health(t *testing.T) {
	_, _, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var status healthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "healthy" {
		t.Errorf("expected healthy, got %s", status.Status)
	}
	if status.Subscribers != 0 {
		t.Errorf("expected 0 subscribers, got %d", status.Subscribers)
	}
}

func TestServer_Readiness(t *testing.T) {
	s, _, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ready")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before ready, got %d", resp.StatusCode)
	}

	s.SetReady(true)

	resp, err = http.Get(ts.URL + "/ready")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 after ready, got %d", resp.StatusCode)
	}
}

func TestServer_Metrics(t *testing.T) {
	_, _, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServer_WebsocketSubscriber(t *testing.T) {
	_, h, ts := newTestServer()
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the connection
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	// Topic join is accepted without gating delivery
	join := models.SubscribeRequest{Event: "subscribeTopic", Topic: "stock_alerts"}
	if err := conn.WriteJSON(join); err != nil {
		t.Fatal(err)
	}

	h.BroadcastEvent(models.Event{
		Source:  models.SourceNewsAPI,
		Title:   "Reliance shares jump on strong earnings",
		Tickers: []string{"RELIANCE.NS"},
	})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env models.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if env.Event != models.MessageNewsEvent {
		t.Errorf("expected %s, got %s", models.MessageNewsEvent, env.Event)
	}

	var ev models.Event
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatalf("bad event payload: %v", err)
	}
	if ev.Title != "Reliance shares jump on strong earnings" {
		t.Errorf("unexpected title %q", ev.Title)
	}

	// Disconnect removes the subscriber from the hub
	conn.Close()
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
