package obs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-billing/internal/obs"
)

func TestHTTPObsLabelsByRoutePattern(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("billing", []float64{1, 10}, registry)

	r := chi.NewRouter()
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	r.Get("/share-whatsapp/{mobile}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	for _, mobile := range []string{"9876543210", "9123456780"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/share-whatsapp/"+mobile, nil))
		require.Equal(t, http.StatusFound, rec.Code)
	}

	require.Equal(t, float64(2), testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/share-whatsapp/{mobile}", "302")))
	require.Equal(t, 1, testutil.CollectAndCount(metrics.ReqDur))
	require.Zero(t, testutil.ToFloat64(metrics.InFlight))
}

func TestRoutePatternFromContext(t *testing.T) {
	ctx := obs.WithRoutePattern(context.Background(), "/analytics")
	require.Equal(t, "/analytics", obs.RoutePatternFromContext(ctx))
	require.Empty(t, obs.RoutePatternFromContext(context.Background()))

	obs.TagBill(context.Background(), "ignored")
	obs.TagBill(ctx, "b-9")
	require.Equal(t, "b-9", obs.BillIDFromContext(ctx))
}

func TestRequestLoggerUsesTaggedBill(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.RequestLogger{Logger: zerolog.New(&buf)}.Middleware)
	r.Post("/generate-bill", func(w http.ResponseWriter, r *http.Request) {
		obs.TagBill(r.Context(), "b-42")
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/generate-bill", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "b-42", entry["bill_id"])
}

func TestRequestLoggerRecordsRouteAndBill(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r := chi.NewRouter()
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Get("/download-pdf", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	req := httptest.NewRequest(http.MethodGet, "/download-pdf?bill_id=b-1", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "/download-pdf", entry["route"])
	require.Equal(t, "b-1", entry["bill_id"])
	require.Equal(t, "203.0.113.7", entry["client_ip"])
	require.Equal(t, float64(http.StatusBadRequest), entry["status"])
}

func TestParseBucketsCSV(t *testing.T) {
	require.Equal(t, []float64{5, 50, 500}, obs.ParseBucketsCSV("5, 50,,abc,-1,500"))
	require.Nil(t, obs.ParseBucketsCSV(""))
}

func TestNewHTTPMetricsReusesRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewHTTPMetrics("billing", nil, registry)
	second := obs.NewHTTPMetrics("billing", nil, registry)
	require.Same(t, first.ReqTotal, second.ReqTotal)
}
