package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Policy bounds how many writes a single key may make inside Window.
type Policy struct {
	Window time.Duration
	Max    int
}

// Disabled reports whether the policy lets every request through.
func (p Policy) Disabled() bool {
	return p.Window <= 0 || p.Max <= 0
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// SlidingWindow counts events per key in a Redis sorted set scored by
// arrival time. A nil client allows everything.
type SlidingWindow struct {
	Client *redis.Client
	Prefix string
	Now    func() time.Time
}

// Allow records one event for key and reports whether it fits the policy.
func (s SlidingWindow) Allow(ctx context.Context, key string, p Policy) (Decision, error) {
	now := s.now()
	resetAt := now.Add(p.Window)
	if s.Client == nil || p.Disabled() {
		return Decision{Allowed: true, Remaining: p.Max, ResetAt: resetAt}, nil
	}

	redisKey := s.Prefix + key
	cutoff := strconv.FormatInt(now.Add(-p.Window).UnixNano(), 10)
	member := fmt.Sprintf("%d:%s", now.UnixNano(), uuid.NewString())

	pipe := s.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, p.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{ResetAt: resetAt}, fmt.Errorf("rate limit %s: %w", key, err)
	}

	current := int(count.Val())
	remaining := p.Max - current
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: current <= p.Max, Remaining: remaining, ResetAt: resetAt}, nil
}

func (s SlidingWindow) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
