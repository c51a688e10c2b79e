// internal/humanoid/helpers.go
package humanoid

import (
	"context"
	"time"
)

// timerSleeper blocks for d unless ctx ends first.
type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// uniformDuration draws from [r.Min, r.Max]. Must be called with h.mu held.
func (h *Humanoid) uniformDuration(r DurationRange) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(h.rng.Float64()*float64(r.Max-r.Min))
}

// pause sleeps for a duration drawn from r.
func (h *Humanoid) pause(ctx context.Context, r DurationRange) error {
	h.mu.Lock()
	d := h.uniformDuration(r)
	h.mu.Unlock()
	return h.sleeper.Sleep(ctx, d)
}
