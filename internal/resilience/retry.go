package resilience

import (
	"context"
	"math/rand"
	"time"
)

// Retry runs an operation up to Attempts times with exponential backoff,
// consulting Breaker before each attempt when one is set.
type Retry struct {
	Breaker  *Breaker
	Attempts int
	Base     time.Duration
	Jitter   float64
}

// Do returns nil on the first successful attempt, ErrOpenCircuit when the
// breaker refuses, or the last error otherwise.
func (r Retry) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if r.Breaker != nil && !r.Breaker.Allow(ctx) {
			if lastErr != nil {
				return lastErr
			}
			return ErrOpenCircuit
		}
		lastErr = op(ctx)
		if r.Breaker != nil {
			r.Breaker.Report(ctx, lastErr == nil)
		}
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(Backoff(r.Base, attempt, r.Jitter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// Backoff returns base doubled per attempt, spread by +/- jitterPct.
func Backoff(base time.Duration, attempt int, jitterPct float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base * time.Duration(1<<uint(attempt-1))
	if jitterPct <= 0 {
		return d
	}
	jitter := float64(d) * jitterPct
	return d + time.Duration((rand.Float64()*2-1)*jitter)
}
