package security

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func formHandler(t *testing.T, got *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form body", http.StatusBadRequest)
			return
		}
		*got = r.PostForm.Get("customer_name")
		w.WriteHeader(http.StatusOK)
	})
}

func TestBodyLimitPassesSmallForm(t *testing.T) {
	var name string
	handler := BodyLimit{Max: 64}.Middleware(formHandler(t, &name))

	body := url.Values{"customer_name": {"Asha"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Asha", name)
}

func TestBodyLimitRejectsDeclaredLength(t *testing.T) {
	var name string
	handler := BodyLimit{Max: 8}.Middleware(formHandler(t, &name))

	req := httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader("customer_name=Asha+Rao"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
	require.Empty(t, name)
}

func TestBodyLimitStopsStreamedBody(t *testing.T) {
	var name string
	handler := BodyLimit{Max: 8}.Middleware(formHandler(t, &name))

	req := httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader("customer_name=Asha+Rao"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, name)
}
