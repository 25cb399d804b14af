package rules

import (
	"github.com/stockpulse/newswire/pkg/models"
)

// Action thresholds. Deliberately stricter than the ±0.35 label
// boundary: a positive-labeled event with a score in (0.35, 0.4] is
// noise-filtered and produces no alert.
const (
	buyThreshold  = 0.4
	sellThreshold = -0.4
)

// Engine derives trade alerts from enriched events
type Engine struct{}

// NewEngine creates new rule engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate returns at most one alert for an event, or nil.
// Events without tickers never produce an alert.
func (e *Engine) Evaluate(ev models.Event) *models.Alert {
	if len(ev.Tickers) == 0 {
		return nil
	}

	var action models.AlertAction
	switch {
	case ev.Sentiment.Label == models.LabelPositive && ev.Sentiment.Score > buyThreshold:
		action = models.ActionBuy
	case ev.Sentiment.Label == models.LabelNegative && ev.Sentiment.Score < sellThreshold:
		action = models.ActionSell
	default:
		return nil
	}

	return &models.Alert{
		Action:    action,
		Tickers:   ev.Tickers,
		Title:     ev.Title,
		Sentiment: ev.Sentiment.Score,
		Event:     ev,
	}
}
