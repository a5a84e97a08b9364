package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// SubmissionField is the hidden form field carrying a one-shot submission token.
const SubmissionField = "submission_token"

// Idem provides an Idempotency-Key middleware backed by Redis.
type Idem struct {
	R   *redis.Client
	TTL time.Duration
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "idem:" + hex.EncodeToString(sum[:])
}

func submissionKey(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Idempotency-Key")); header != "" {
		return header
	}
	return strings.TrimSpace(r.PostFormValue(SubmissionField))
}

// Middleware rejects a replayed write. The key comes from the Idempotency-Key
// header or, for browser forms, from the submission_token field. The key is
// released again when the handler answers with an error status, so a failed
// submission can be retried with the same token.
func (i Idem) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.R == nil {
			next.ServeHTTP(w, r)
			return
		}
		raw := submissionKey(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		key := hashKey(raw)
		ok, err := i.R.SetNX(ctx, key, "locked", i.ttl()).Result()
		if err != nil {
			JSONError(w, http.StatusServiceUnavailable, "PERSISTENCE_ERROR", "idempotency store error", map[string]any{"error": err.Error()})
			return
		}
		if !ok {
			JSONError(w, http.StatusConflict, "IDEMPOTENT_REPLAY", "duplicate request", nil)
			return
		}
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		completed := false
		defer func() {
			if completed && sw.status < http.StatusBadRequest {
				return
			}
			// request context may already be cancelled
			_ = i.R.Del(context.Background(), key).Err()
		}()
		next.ServeHTTP(sw, r)
		completed = true
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (i Idem) ttl() time.Duration {
	if i.TTL <= 0 {
		return 10 * time.Minute
	}
	return i.TTL
}
