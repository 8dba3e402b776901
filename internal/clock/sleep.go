// Package clock holds small time utilities shared by the polling loops.
package clock

import (
	"context"
	"time"
)

// SleepWithContext pauses for d, returning ctx.Err() as soon as the context
// ends instead of waiting out the timer.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
