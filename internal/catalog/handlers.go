package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/noah-isme/backend-billing/internal/common"
	"github.com/noah-isme/backend-billing/internal/web"
)

// BillFormRows is the number of selection rows offered on the billing form.
const BillFormRows = 5

// Handler exposes the product catalog pages.
type Handler struct {
	service *Service
	views   *web.Views
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
	Views   *web.Views
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service, views: cfg.Views}
}

// Index handles GET /: the billing form with the product list.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	products, err := h.service.List(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if common.WantsJSON(r) || h.views == nil {
		common.JSON(w, http.StatusOK, map[string]any{"data": products})
		return
	}
	h.views.Render(w, http.StatusOK, web.PageIndex, map[string]any{
		"Products": products,
		"Rows":     make([]struct{}, BillFormRows),
	})
}

// AddProduct handles POST /add_product.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		common.WriteError(w, common.ValidationError("invalid form body", nil))
		return
	}
	product, err := h.service.Add(r.Context(), AddInput{
		Name:         r.PostFormValue("name"),
		BuyingPrice:  r.PostFormValue("buying_price"),
		SellingPrice: r.PostFormValue("selling_price"),
		Sizes:        r.PostFormValue("sizes"),
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if common.WantsJSON(r) {
		common.JSON(w, http.StatusCreated, map[string]any{"data": product})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// UpdateProduct handles POST /update_product. Blank fields are left unchanged.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		common.WriteError(w, common.ValidationError("invalid form body", nil))
		return
	}
	req, err := parseUpdateForm(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	product, err := h.service.Update(r.Context(), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if common.WantsJSON(r) {
		common.JSON(w, http.StatusOK, map[string]any{"data": product, "updated": product != nil})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func parseUpdateForm(r *http.Request) (UpdateRequest, error) {
	rawID := strings.TrimSpace(r.PostFormValue("product_id"))
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return UpdateRequest{}, common.ValidationError("product_id must be a positive integer", map[string]any{"field": "product_id", "value": rawID})
	}
	req := UpdateRequest{ID: id}
	if name := strings.TrimSpace(r.PostFormValue("new_name")); name != "" {
		req.Name = &name
	}
	if raw := strings.TrimSpace(r.PostFormValue("new_buying_price")); raw != "" {
		price, err := ParsePrice("new_buying_price", raw)
		if err != nil {
			return UpdateRequest{}, err
		}
		req.BuyingPrice = &price
	}
	if raw := strings.TrimSpace(r.PostFormValue("new_selling_price")); raw != "" {
		price, err := ParsePrice("new_selling_price", raw)
		if err != nil {
			return UpdateRequest{}, err
		}
		req.SellingPrice = &price
	}
	return req, nil
}
