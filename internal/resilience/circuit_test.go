package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-billing/internal/resilience"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestBreakerTransitions(t *testing.T) {
	resilience.MustRegisterMetrics("billing", prometheus.NewRegistry())
	c := &clock{t: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)}
	breaker := resilience.NewBreaker(resilience.Config{
		Target:      "archive-test",
		MinRequests: 2,
		OpenFor:     time.Minute,
		Now:         c.now,
		Logger:      zerolog.Nop(),
	})
	ctx := context.Background()

	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.Equal(t, resilience.Open, breaker.State())
	require.False(t, breaker.Allow(ctx))
	require.Equal(t, 1.0, testutil.ToFloat64(resilience.BreakerState.WithLabelValues("archive-test")))

	c.t = c.t.Add(time.Minute)
	require.True(t, breaker.Allow(ctx), "probe after cool-off")
	require.False(t, breaker.Allow(ctx), "only one probe while half-open")
	breaker.Report(ctx, true)
	require.Equal(t, resilience.Closed, breaker.State())
	require.True(t, breaker.Allow(ctx))

	require.Equal(t, 1.0, testutil.ToFloat64(resilience.BreakerTransitions.WithLabelValues("archive-test", "closed", "open")))
	require.Equal(t, 1.0, testutil.ToFloat64(resilience.BreakerTransitions.WithLabelValues("archive-test", "half_open", "closed")))
}

func TestRetryStopsAtOpenBreaker(t *testing.T) {
	breaker := resilience.NewBreaker(resilience.Config{MinRequests: 1, OpenFor: time.Hour})
	calls := 0
	boom := errors.New("minio unreachable")
	err := resilience.Retry{Breaker: breaker, Attempts: 3, Base: time.Millisecond}.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)

	err = resilience.Retry{Breaker: breaker, Attempts: 3}.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, resilience.ErrOpenCircuit)
	require.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterFailure(t *testing.T) {
	calls := 0
	err := resilience.Retry{Attempts: 3, Base: time.Millisecond}.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("timeout")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestBackoffWithJitter(t *testing.T) {
	base := 100 * time.Millisecond
	require.Equal(t, base, resilience.Backoff(base, 1, 0))
	require.Equal(t, base*4, resilience.Backoff(base, 3, 0))

	d := resilience.Backoff(base, 2, 0.2)
	require.GreaterOrEqual(t, d, base*2-base*2/5)
	require.LessOrEqual(t, d, base*2+base*2/5)
}
