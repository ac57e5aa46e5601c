package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Cooldown blocks for the given duration after a rate-limit signal, or until
// the context is cancelled. The rate-limited call is not retried; the caller
// moves on to its next step once the cooldown elapses.
func Cooldown(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	zap.L().Warn("rate limited, cooling down", zap.Duration("cooldown", d))

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
