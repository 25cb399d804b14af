package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters. All registered on the default registry and served
// by the /metrics route.
var (
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswire_events_ingested_total",
		Help: "Canonical events produced by source adapters",
	}, []string{"source"})

	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswire_events_dropped_total",
		Help: "Upstream messages dropped due to parse or transport errors",
	}, []string{"source"})

	AlertsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswire_alerts_generated_total",
		Help: "Trade alerts derived by the rule engine",
	}, []string{"action"})

	BroadcastsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswire_broadcasts_total",
		Help: "Messages broadcast to subscribers",
	}, []string{"event"})

	PushDispatchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newswire_push_dispatch_errors_total",
		Help: "Failed push notification deliveries",
	})

	SubscribersConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newswire_subscribers_connected",
		Help: "Currently connected websocket subscribers",
	})

	SubscribersEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newswire_subscribers_evicted_total",
		Help: "Subscribers disconnected because their send buffer backed up",
	})
)
