package models

import "time"

// Source identifies which adapter produced an event.
type Source string

const (
	// SourceFinnhub marks events from the streaming (push-feed) venue
	SourceFinnhub Source = "finnhub"
	// SourceNewsAPI marks events from the polled search venue
	SourceNewsAPI Source = "newsapi"
)

// SentimentLabel is the threshold partition of the normalized score
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// Sentiment holds the lexicon score for one piece of text.
// Score is tanh(RawScore/5), so it is always in (-1, 1); Label is
// derived from Score with fixed ±0.35 thresholds.
type Sentiment struct {
	Score    float64        `json:"score"`
	Label    SentimentLabel `json:"label"`
	RawScore float64        `json:"rawScore"`
}

// Event is the canonical news item produced by any adapter.
// Tickers and Sentiment are filled once by the enricher; after that the
// value is treated as immutable and is discarded after broadcast.
type Event struct {
	Source      Source    `json:"source"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt string    `json:"publishedAt,omitempty"`
	Tickers     []string  `json:"tickers"`
	Sentiment   Sentiment `json:"sentiment"`
	ReceivedAt  time.Time `json:"received_at"`
}

// AlertAction is the derived trade signal direction
type AlertAction string

const (
	ActionBuy  AlertAction = "BUY"
	ActionSell AlertAction = "SELL"
)

// Alert is a derived BUY/SELL signal. Tickers is never empty: the rule
// engine refuses to construct an alert for an event without tickers.
type Alert struct {
	Action    AlertAction `json:"action"`
	Tickers   []string    `json:"tickers"`
	Title     string      `json:"title"`
	Sentiment float64     `json:"sentiment"`
	Event     Event       `json:"event"`
}
