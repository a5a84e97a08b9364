package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, Policy) (Decision, error) {
	return Decision{}, errors.New("redis down")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardThrottlesPerClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	guard := Guard{
		Limiter: SlidingWindow{Client: client, Prefix: "rl:"},
		Policy:  Policy{Window: time.Minute, Max: 1},
		Scope:   "generate-bill",
		Logger:  zerolog.Nop(),
	}
	handler := guard.Middleware(okHandler())

	newReq := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/generate-bill", nil)
		req.RemoteAddr = ip + ":5123"
		return req
	}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newReq("10.0.0.1"))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newReq("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Equal(t, ThrottledMessage, second.Body.String())
	require.NotEmpty(t, second.Header().Get("Retry-After"))

	elsewhere := httptest.NewRecorder()
	handler.ServeHTTP(elsewhere, newReq("10.0.0.2"))
	require.Equal(t, http.StatusOK, elsewhere.Code)
}

func TestGuardJSONRejection(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	guard := Guard{
		Limiter: SlidingWindow{Client: client},
		Policy:  Policy{Window: time.Minute, Max: 1},
		Scope:   "add-product",
		Key:     func(*http.Request) string { return "static" },
	}
	handler := guard.Middleware(okHandler())

	for _, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/add_product", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code)
		if want == http.StatusTooManyRequests {
			require.Contains(t, rec.Body.String(), "RATE_LIMITED")
		}
	}
}

func TestGuardFailsOpen(t *testing.T) {
	guard := Guard{
		Limiter: failingLimiter{},
		Policy:  Policy{Window: time.Minute, Max: 1},
		Scope:   "generate-bill",
		Logger:  zerolog.Nop(),
	}
	rec := httptest.NewRecorder()
	guard.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate-bill", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
