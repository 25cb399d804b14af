package push

import (
	"context"

	"github.com/stockpulse/newswire/pkg/models"
)

// Dispatcher forwards a trade alert to a push-notification backend.
// Implementations are best-effort: the pipeline logs failures and
// never retries or escalates them.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert models.Alert) error
}

// Noop is the dispatcher used when no push backend is configured
type Noop struct{}

// Dispatch does nothing
func (Noop) Dispatch(ctx context.Context, alert models.Alert) error {
	return nil
}
