package httpapi

import (
	"encoding/json"
	"net/http"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/go-chi/chi/v5"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type cartResponse struct {
	Items    []cartdomain.Line `json:"items"`
	Count    int32             `json:"count"`
	Subtotal int64             `json:"subtotal"`
}

func toCartResponse(c cartdomain.Cart) cartResponse {
	items := c.Lines
	if items == nil {
		items = []cartdomain.Line{}
	}
	return cartResponse{
		Items:    items,
		Count:    c.Count(),
		Subtotal: c.SubtotalCents(),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(r.Context(), sid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) cartCount(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	count, err := h.carts.Count(r.Context(), sid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"count": count})
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: "INVALID_ARGUMENT"})
		return
	}

	cart, err := h.carts.AddItem(r.Context(), sid, req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: "INVALID_ARGUMENT"})
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), sid, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), sid, chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	if err := h.carts.Clear(r.Context(), sid); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
