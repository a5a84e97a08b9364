package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-billing/internal/common"
	"github.com/noah-isme/backend-billing/internal/obs"
)

// ThrottledMessage is the plain-text body returned to browser forms.
const ThrottledMessage = "Too many submissions, please wait a moment and try again."

// Limiter decides whether key may perform another write under p.
type Limiter interface {
	Allow(ctx context.Context, key string, p Policy) (Decision, error)
}

// Guard throttles write requests per client. Scope separates counters
// for different forms so one busy form does not starve another.
type Guard struct {
	Limiter Limiter
	Policy  Policy
	Scope   string
	Key     func(*http.Request) string
	Logger  zerolog.Logger
}

// ByClientIP keys requests on the caller address.
func ByClientIP(r *http.Request) string {
	return common.ClientIP(r)
}

// Middleware rejects requests over the policy with 429. Limiter failures
// are logged and the request proceeds.
func (g Guard) Middleware(next http.Handler) http.Handler {
	keyFn := g.Key
	if keyFn == nil {
		keyFn = ByClientIP
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Limiter == nil || g.Policy.Disabled() {
			next.ServeHTTP(w, r)
			return
		}
		key := g.Scope + ":" + keyFn(r)
		decision, err := g.Limiter.Allow(r.Context(), key, g.Policy)
		if err != nil {
			g.Logger.Warn().Err(err).Str("scope", g.Scope).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(g.Policy.Max))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			obs.IncCounter(obs.WritesThrottledTotal, g.Scope)
			if common.WantsJSON(r) {
				common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", nil)
				return
			}
			common.WriteText(w, http.StatusTooManyRequests, ThrottledMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}
