package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	catalogdomain "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/go-chi/chi/v5"
)

type productResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Brand         string     `json:"brand,omitempty"`
	Flavor        string     `json:"flavor,omitempty"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	Price         int64      `json:"price"`
	StockQuantity int32      `json:"stockQuantity"`
	Weight        int64      `json:"weight"`
	WeightUnit    string     `json:"weightUnit"`
	IsAvailable   bool       `json:"isAvailable"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		Flavor:        p.Flavor,
		ImageURL:      p.ImageURL,
		Price:         p.PriceCents,
		StockQuantity: p.StockQuantity,
		Weight:        p.Weight,
		WeightUnit:    p.WeightUnit,
		IsAvailable:   p.IsAvailable,
		ExpiryDate:    p.ExpiryDate,
	}
}

type productRequest struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Brand         string     `json:"brand"`
	Flavor        string     `json:"flavor"`
	ImageURL      string     `json:"imageUrl"`
	Price         int64      `json:"price"`
	StockQuantity int32      `json:"stockQuantity"`
	Weight        int64      `json:"weight"`
	WeightUnit    string     `json:"weightUnit"`
	IsAvailable   bool       `json:"isAvailable"`
	ExpiryDate    *time.Time `json:"expiryDate"`
}

func (req productRequest) toDomain(id string) catalogdomain.Product {
	return catalogdomain.Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Brand:         req.Brand,
		Flavor:        req.Flavor,
		ImageURL:      req.ImageURL,
		PriceCents:    req.Price,
		StockQuantity: req.StockQuantity,
		Weight:        req.Weight,
		WeightUnit:    req.WeightUnit,
		IsAvailable:   req.IsAvailable,
		ExpiryDate:    req.ExpiryDate,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, next, err := h.catalog.ListProducts(r.Context(), q.Get("q"), limit, q.Get("cursor"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products":   out,
		"nextCursor": next,
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: "INVALID_ARGUMENT"})
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), req.toDomain(""))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: "INVALID_ARGUMENT"})
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), req.toDomain(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}
