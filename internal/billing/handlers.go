package billing

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-billing/internal/common"
	"github.com/noah-isme/backend-billing/internal/document"
	"github.com/noah-isme/backend-billing/internal/obs"
	"github.com/noah-isme/backend-billing/internal/pricing"
	"github.com/noah-isme/backend-billing/internal/web"
)

// Handler exposes bill generation and document endpoints.
type Handler struct {
	Svc   *Service
	Views *web.Views
}

type summary struct {
	Bill     pricing.Bill `json:"bill"`
	Skipped  []Skipped    `json:"skipped"`
	PDFURL   string       `json:"pdf_url"`
	ShareURL string       `json:"share_url"`
}

// GenerateBill handles POST /generate-bill.
func (h *Handler) GenerateBill(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "billing service not configured", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		common.WriteError(w, common.ValidationError("invalid form body", nil))
		return
	}
	res, err := h.Svc.Generate(r.Context(), Input{
		CustomerName: r.PostForm.Get("customer_name"),
		MobileNumber: r.PostForm.Get("mobile_number"),
		Selections:   selectionsFromForm(r.PostForm),
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	obs.TagBill(r.Context(), res.Bill.ID)
	out := summary{
		Bill:     res.Bill,
		Skipped:  res.Skipped,
		PDFURL:   "/download-pdf?bill_id=" + url.QueryEscape(res.Bill.ID),
		ShareURL: "/share-whatsapp/" + url.PathEscape(res.Bill.MobileNumber) + "?bill_id=" + url.QueryEscape(res.Bill.ID),
	}
	if out.Skipped == nil {
		out.Skipped = []Skipped{}
	}
	if common.WantsJSON(r) || h.Views == nil {
		common.JSON(w, http.StatusOK, map[string]any{"data": out})
		return
	}
	h.Views.Render(w, http.StatusOK, web.PageBill, out)
}

// DownloadPDF handles GET /download-pdf?bill_id=.
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "billing service not configured", nil)
		return
	}
	bill, ok := h.lookup(w, r)
	if !ok {
		return
	}
	pdf, err := document.RenderPDF(bill, h.Svc.Layout())
	if err != nil {
		obs.IncCounter(obs.DocumentsRenderedTotal, "pdf", "error")
		common.WriteError(w, err)
		return
	}
	obs.IncCounter(obs.DocumentsRenderedTotal, "pdf", "ok")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+document.PDFFilename(bill)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// ShareWhatsApp handles GET /share-whatsapp/{mobile}?bill_id= by redirecting to wa.me.
func (h *Handler) ShareWhatsApp(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "billing service not configured", nil)
		return
	}
	bill, ok := h.lookup(w, r)
	if !ok {
		return
	}
	link, err := document.ShareLink(bill, chi.URLParam(r, "mobile"), h.Svc.Layout())
	if err != nil {
		obs.IncCounter(obs.DocumentsRenderedTotal, "share", "error")
		common.WriteError(w, err)
		return
	}
	obs.IncCounter(obs.DocumentsRenderedTotal, "share", "ok")
	http.Redirect(w, r, link, http.StatusFound)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (pricing.Bill, bool) {
	bill, err := h.Svc.Lookup(r.Context(), r.URL.Query().Get("bill_id"))
	if err == nil {
		obs.TagBill(r.Context(), bill.ID)
		return bill, true
	}
	if errors.Is(err, common.ErrState) {
		common.WriteText(w, http.StatusBadRequest, NoBillMessage)
		return pricing.Bill{}, false
	}
	common.WriteError(w, err)
	return pricing.Bill{}, false
}

func selectionsFromForm(form url.Values) []Selection {
	ids := form["product_id"]
	sizes := form["size"]
	quantities := form["quantity"]
	out := make([]Selection, 0, len(ids))
	for i, id := range ids {
		sel := Selection{ProductID: id}
		if i < len(sizes) {
			sel.Size = sizes[i]
		}
		if i < len(quantities) {
			sel.Quantity = quantities[i]
		}
		out = append(out, sel)
	}
	return out
}
