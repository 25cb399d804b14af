package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stockpulse/newswire/internal/adapters/push"
	"github.com/stockpulse/newswire/internal/rules"
	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/metrics"
	"github.com/stockpulse/newswire/pkg/models"
)

const (
	// eventBuffer absorbs bursts from concurrent adapters
	eventBuffer = 256

	dispatchTimeout = 10 * time.Second
)

// Broadcaster fans events and alerts out to connected subscribers
type Broadcaster interface {
	BroadcastEvent(ev models.Event)
	BroadcastAlert(alert models.Alert)
}

// Pipeline is the orchestrator: it consumes canonical events from all
// adapters on one channel and runs each through broadcast, rule
// evaluation and alert fan-out. A single goroutine processes events,
// so one event always completes the whole pass before the next starts.
type Pipeline struct {
	events      chan models.Event
	broadcaster Broadcaster
	engine      *rules.Engine
	dispatchers []push.Dispatcher

	wg         sync.WaitGroup
	dispatchWG sync.WaitGroup
}

// New creates new pipeline
func New(b Broadcaster, engine *rules.Engine, dispatchers ...push.Dispatcher) *Pipeline {
	return &Pipeline{
		events:      make(chan models.Event, eventBuffer),
		broadcaster: b,
		engine:      engine,
		dispatchers: dispatchers,
	}
}

// Events returns the channel adapters emit canonical events into
func (p *Pipeline) Events() chan<- models.Event {
	return p.events
}

// Start launches the processing loop
func (p *Pipeline) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		logger.Info("pipeline started",
			zap.Int("dispatchers", len(p.dispatchers)),
		)

		for {
			select {
			case <-ctx.Done():
				logger.Info("pipeline stopping")
				return
			case ev := <-p.events:
				p.process(ev)
			}
		}
	}()
}

// Stop waits for the loop and any in-flight dispatches to finish
func (p *Pipeline) Stop(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		p.dispatchWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("pipeline stopped gracefully")
	case <-time.After(timeout):
		logger.Warn("pipeline stop timeout")
	}
}

// process runs one whole pipeline pass for one event
func (p *Pipeline) process(ev models.Event) {
	p.broadcaster.BroadcastEvent(ev)

	alert := p.engine.Evaluate(ev)
	if alert == nil {
		return
	}

	metrics.AlertsGenerated.WithLabelValues(string(alert.Action)).Inc()

	logger.Info("trade alert",
		zap.String("action", string(alert.Action)),
		zap.Strings("tickers", alert.Tickers),
		zap.Float64("sentiment", alert.Sentiment),
		zap.String("title", alert.Title),
	)

	p.broadcaster.BroadcastAlert(*alert)
	p.dispatch(*alert)
}

// dispatch forwards one alert to every push channel, fire-and-forget.
// Failures are logged and never retried or surfaced to the pass that
// produced the alert.
func (p *Pipeline) dispatch(alert models.Alert) {
	for _, d := range p.dispatchers {
		p.dispatchWG.Add(1)
		go func(d push.Dispatcher) {
			defer p.dispatchWG.Done()

			ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
			defer cancel()

			if err := d.Dispatch(ctx, alert); err != nil {
				metrics.PushDispatchErrors.Inc()
				logger.Error("push dispatch failed",
					zap.String("action", string(alert.Action)),
					zap.Error(err),
				)
			}
		}(d)
	}
}
