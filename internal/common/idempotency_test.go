package common_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-billing/internal/common"
)

func TestIdemRejectsReplayedSubmission(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	calls := 0
	handler := common.Idem{R: rdb, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "Asha", r.PostFormValue("customer_name"))
		w.WriteHeader(http.StatusOK)
	}))

	form := url.Values{"customer_name": {"Asha"}, common.SubmissionField: {"tok-1"}}
	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newReq())
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newReq())
	require.Equal(t, http.StatusConflict, second.Code)
	require.Equal(t, 1, calls)
}

func TestIdemPassesThroughWithoutKey(t *testing.T) {
	calls := 0
	handler := common.Idem{}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/generate-bill", nil))
	}
	require.Equal(t, 2, calls)
}

func TestIdemReleasesKeyAfterFailedAttempt(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	statuses := []int{http.StatusServiceUnavailable, http.StatusBadRequest, http.StatusFound}
	calls := 0
	handler := common.Idem{R: rdb, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := statuses[calls]
		calls++
		if status == http.StatusServiceUnavailable {
			common.WriteError(w, common.PersistenceError("bill not recorded", nil))
			return
		}
		w.WriteHeader(status)
	}))

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/generate-bill", nil)
		req.Header.Set("Idempotency-Key", "tok-2")
		return req
	}

	for _, want := range statuses {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newReq())
		require.Equal(t, want, rec.Code)
	}
	require.Equal(t, 3, calls)

	replay := httptest.NewRecorder()
	handler.ServeHTTP(replay, newReq())
	require.Equal(t, http.StatusConflict, replay.Code)
	require.Contains(t, replay.Body.String(), "IDEMPOTENT_REPLAY")
	require.Equal(t, 3, calls)
}
