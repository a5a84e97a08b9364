package billing_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-billing/internal/billing"
	"github.com/noah-isme/backend-billing/internal/web"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	views, err := web.New("URBAN CLYNE")
	require.NoError(t, err)
	h := &billing.Handler{Svc: newService(t, shopLedger(), billing.NewMemoryStore(8, time.Minute)), Views: views}
	r := chi.NewRouter()
	r.Post("/generate-bill", h.GenerateBill)
	r.Get("/download-pdf", h.DownloadPDF)
	r.Get("/share-whatsapp/{mobile}", h.ShareWhatsApp)
	return r
}

type generated struct {
	Data struct {
		Bill struct {
			ID         string          `json:"id"`
			GrandTotal decimal.Decimal `json:"grand_total"`
		} `json:"bill"`
		Skipped  []billing.Skipped `json:"skipped"`
		PDFURL   string            `json:"pdf_url"`
		ShareURL string            `json:"share_url"`
	} `json:"data"`
}

func generate(t *testing.T, router http.Handler, accept string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{
		"customer_name": {"Asha"},
		"mobile_number": {"9999999999"},
		"product_id":    {"1", ""},
		"size":          {"M", ""},
		"quantity":      {"2", ""},
	}
	req := httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateBillJSONThenDocuments(t *testing.T) {
	router := newRouter(t)
	rec := generate(t, router, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var body generated
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Bill.ID)
	require.Equal(t, "998.00", body.Data.Bill.GrandTotal.StringFixed(2))
	require.Equal(t, []billing.Skipped{{Index: 1, Reason: billing.SkipMissingField}}, body.Data.Skipped)

	pdfRec := httptest.NewRecorder()
	router.ServeHTTP(pdfRec, httptest.NewRequest(http.MethodGet, body.Data.PDFURL, nil))
	require.Equal(t, http.StatusOK, pdfRec.Code)
	require.Equal(t, "application/pdf", pdfRec.Header().Get("Content-Type"))
	require.Contains(t, pdfRec.Header().Get("Content-Disposition"), "attachment")
	require.True(t, strings.HasPrefix(pdfRec.Body.String(), "%PDF-"))

	shareRec := httptest.NewRecorder()
	router.ServeHTTP(shareRec, httptest.NewRequest(http.MethodGet, body.Data.ShareURL, nil))
	require.Equal(t, http.StatusFound, shareRec.Code)
	location := shareRec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "https://wa.me/9999999999?text=Hello%20Asha"), location)
	require.Contains(t, location, "998.00")
}

func TestGenerateBillHTML(t *testing.T) {
	rec := generate(t, newRouter(t), "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Tee")
	require.Contains(t, body, "998.00")
	require.Contains(t, body, "/download-pdf?bill_id=")
	require.Contains(t, body, "missing_field")
}

func TestGenerateBillValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/generate-bill", strings.NewReader("product_id=1&quantity=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentsWithoutBill(t *testing.T) {
	router := newRouter(t)
	for _, path := range []string{
		"/download-pdf",
		"/download-pdf?bill_id=unknown",
		"/share-whatsapp/9999999999",
		"/share-whatsapp/9999999999?bill_id=unknown",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		require.Equal(t, billing.NoBillMessage, rec.Body.String(), path)
	}
}
