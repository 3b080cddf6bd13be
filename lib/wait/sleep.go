package wait

import (
	"context"
	"time"
)

// Sleep is context-interruptable sleep.
// Returns the context error if the context is done before d elapses
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
