package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowForgetsOldEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	window := SlidingWindow{Client: client, Prefix: "rl:", Now: func() time.Time { return now }}
	policy := Policy{Window: 2 * time.Second, Max: 2}
	ctx := context.Background()

	for i := 0; i < policy.Max; i++ {
		d, err := window.Allow(ctx, "bill:10.0.0.1", policy)
		require.NoError(t, err)
		require.True(t, d.Allowed)
		require.Equal(t, policy.Max-(i+1), d.Remaining)
	}

	d, err := window.Allow(ctx, "bill:10.0.0.1", policy)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Zero(t, d.Remaining)

	other, err := window.Allow(ctx, "bill:10.0.0.2", policy)
	require.NoError(t, err)
	require.True(t, other.Allowed)

	now = now.Add(3 * time.Second)
	d, err = window.Allow(ctx, "bill:10.0.0.1", policy)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, now.Add(policy.Window), d.ResetAt)
}

func TestSlidingWindowWithoutClientAllows(t *testing.T) {
	d, err := SlidingWindow{}.Allow(context.Background(), "any", Policy{Window: time.Minute, Max: 1})
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestPolicyDisabled(t *testing.T) {
	require.True(t, Policy{}.Disabled())
	require.True(t, Policy{Window: time.Minute}.Disabled())
	require.False(t, Policy{Window: time.Minute, Max: 3}.Disabled())
}
