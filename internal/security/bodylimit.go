package security

import (
	"net/http"

	"github.com/noah-isme/backend-billing/internal/common"
)

// BodyLimit caps request bodies. Declared oversize bodies are rejected
// up front; streamed ones fail when the handler parses the form.
type BodyLimit struct {
	Max int64
}

// Middleware rejects requests whose Content-Length exceeds Max with 413.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Max <= 0 || r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > b.Max {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", map[string]any{"max_bytes": b.Max})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, b.Max)
		next.ServeHTTP(w, r)
	})
}
