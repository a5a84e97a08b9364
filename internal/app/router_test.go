package app_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-billing/internal/app"
	"github.com/noah-isme/backend-billing/internal/billing"
	"github.com/noah-isme/backend-billing/internal/config"
)

func newRouter(t *testing.T, env map[string]string, rdb *redis.Client) http.Handler {
	t.Helper()
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	handler, err := app.NewRouter(cfg, app.Dependencies{Redis: rdb, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return handler
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req
}

func TestRouterHealthEndpoints(t *testing.T) {
	handler := newRouter(t, nil, nil)

	live := httptest.NewRecorder()
	handler.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, live.Code)
	require.Equal(t, "nosniff", live.Header().Get("X-Content-Type-Options"))

	ready := httptest.NewRecorder()
	handler.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, ready.Code)
	require.Contains(t, ready.Body.String(), `"redis":"disabled"`)
}

func TestRouterDocumentsWithoutBill(t *testing.T) {
	handler := newRouter(t, nil, nil)

	for _, path := range []string{"/download-pdf", "/share-whatsapp/9876543210?bill_id=missing"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		require.Equal(t, billing.NoBillMessage, rec.Body.String(), path)
	}
}

func TestRouterRejectsIncompleteBill(t *testing.T) {
	handler := newRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postForm("/generate-bill", url.Values{"mobile_number": {"9876543210"}}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestRouterThrottlesBillSubmissions(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	handler := newRouter(t, map[string]string{"RATE_LIMIT_MAX": "1"}, rdb)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, postForm("/generate-bill", url.Values{}))
	require.Equal(t, http.StatusBadRequest, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, postForm("/generate-bill", url.Values{}))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	handler := newRouter(t, nil, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
