package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-billing/internal/web"
)

func TestRenderIndexEscapesProductNames(t *testing.T) {
	views, err := web.New("URBAN CLYNE")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	views.Render(rec, http.StatusOK, web.PageIndex, map[string]any{
		"Rows": make([]struct{}, 2),
		"Products": []struct {
			ID           int64
			Name         string
			BuyingPrice  decimal.Decimal
			SellingPrice decimal.Decimal
			Sizes        []string
		}{{ID: 1, Name: "<Tee>", BuyingPrice: decimal.NewFromInt(200), SellingPrice: decimal.NewFromInt(499), Sizes: []string{"S", "M"}}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	require.Contains(t, body, "URBAN CLYNE")
	require.Contains(t, body, "&lt;Tee&gt;")
	require.Contains(t, body, "499.00")
	require.Contains(t, body, `name="submission_token"`)
}

func TestRenderUnknownPage(t *testing.T) {
	views, err := web.New("shop")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	views.Render(rec, http.StatusOK, "missing.html", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
