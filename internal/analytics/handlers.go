package analytics

import (
	"net/http"

	"github.com/noah-isme/backend-billing/internal/common"
	"github.com/noah-isme/backend-billing/internal/web"
)

// Handler exposes the analytics dashboard.
type Handler struct {
	Svc   *Service
	Views *web.Views
}

// Dashboard handles GET /analytics.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_NOT_CONFIGURED", "analytics service not configured", nil)
		return
	}
	summary, err := h.Svc.Compute(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if common.WantsJSON(r) || h.Views == nil {
		common.JSON(w, http.StatusOK, map[string]any{"data": summary})
		return
	}
	h.Views.Render(w, http.StatusOK, web.PageAnalytics, summary)
}
