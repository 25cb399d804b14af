package worker

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stockpulse/newswire/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type countingWorker struct {
	runs atomic.Int64
	err  error
}

func (w *countingWorker) Name() string { return "counting" }

func (w *countingWorker) Run(ctx context.Context) error {
	w.runs.Add(1)
	return w.err
}

func TestPeriodicWorker_RunsImmediatelyThenOnInterval(t *testing.T) {
	w := &countingWorker{}
	pw := NewPeriodicWorker(w, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	pw.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for w.runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	pw.Stop(time.Second)

	if got := w.runs.Load(); got < 3 {
		t.Errorf("expected at least 3 runs (1 immediate + ticks), got %d", got)
	}
}

func TestPeriodicWorker_SurvivesFailingTicks(t *testing.T) {
	w := &countingWorker{err: errors.New("upstream down")}
	pw := NewPeriodicWorker(w, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	pw.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for w.runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	pw.Stop(time.Second)

	if got := w.runs.Load(); got < 2 {
		t.Errorf("expected ticks to continue after failures, got %d runs", got)
	}
}

func TestPeriodicWorker_StopsOnCancel(t *testing.T) {
	w := &countingWorker{}
	pw := NewPeriodicWorker(w, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	pw.Start(ctx)

	// Only the immediate run should ever happen with an hour interval
	time.Sleep(20 * time.Millisecond)
	cancel()
	pw.Stop(time.Second)

	if got := w.runs.Load(); got != 1 {
		t.Errorf("expected exactly 1 run, got %d", got)
	}
}
