package models

import "encoding/json"

// Wire message kinds broadcast to subscribers
const (
	MessageNewsEvent  = "news_event"
	MessageTradeAlert = "trade_alert"
)

// Envelope frames an outbound broadcast with its event name.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewEventEnvelope wraps an enriched event for broadcast
func NewEventEnvelope(ev Event) (Envelope, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: MessageNewsEvent, Data: data}, nil
}

// NewAlertEnvelope wraps a trade alert for broadcast
func NewAlertEnvelope(alert Alert) (Envelope, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: MessageTradeAlert, Data: data}, nil
}

// SubscribeRequest is the only inbound control message from a subscriber.
// Joining a topic is acknowledged and tracked, but broadcasts are
// delivered to every connection regardless of topic membership.
type SubscribeRequest struct {
	Event string `json:"event"`
	Topic string `json:"topic"`
}
