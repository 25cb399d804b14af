package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stockpulse/newswire/pkg/logger"
)

// Worker is one unit of repeatable background work
type Worker interface {
	// Name returns worker name for logging
	Name() string
	// Run executes one iteration of work
	Run(ctx context.Context) error
}

// PeriodicWorker executes a Worker once immediately and then on a
// fixed interval. Run is called on the tick loop itself, so two
// iterations can never overlap; a tick that fires while an iteration
// is still in flight is absorbed by the ticker.
type PeriodicWorker struct {
	worker   Worker
	interval time.Duration
	wg       sync.WaitGroup
}

// NewPeriodicWorker creates new periodic worker
func NewPeriodicWorker(worker Worker, interval time.Duration) *PeriodicWorker {
	return &PeriodicWorker{
		worker:   worker,
		interval: interval,
	}
}

// Start launches the tick loop
func (pw *PeriodicWorker) Start(ctx context.Context) {
	pw.wg.Add(1)
	go pw.run(ctx)
}

// Stop waits for the loop to exit after context cancellation
func (pw *PeriodicWorker) Stop(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		pw.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("worker stopped gracefully",
			zap.String("worker", pw.worker.Name()),
		)
	case <-time.After(timeout):
		logger.Warn("worker stop timeout",
			zap.String("worker", pw.worker.Name()),
		)
	}
}

func (pw *PeriodicWorker) run(ctx context.Context) {
	defer pw.wg.Done()

	logger.Info("🚀 worker started",
		zap.String("worker", pw.worker.Name()),
		zap.Duration("interval", pw.interval),
	)

	// Immediate first run, then the interval cadence
	pw.tick(ctx)

	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("🛑 worker stopping",
				zap.String("worker", pw.worker.Name()),
			)
			return

		case <-ticker.C:
			pw.tick(ctx)
		}
	}
}

// tick runs one iteration; a failed tick is logged and the next
// scheduled tick proceeds regardless
func (pw *PeriodicWorker) tick(ctx context.Context) {
	if err := pw.worker.Run(ctx); err != nil {
		logger.Error("worker iteration failed",
			zap.String("worker", pw.worker.Name()),
			zap.Error(err),
		)
	}
}
