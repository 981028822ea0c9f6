package httpapi

import (
	"encoding/json"
	"net/http"
)

type checkoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Notes           string `json:"notes"`
}

func (h *Handler) postCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout")
	defer span.End()

	sid, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: "INVALID_ARGUMENT"})
		return
	}

	o, err := h.checkout.Checkout(ctx, sid, userID(r), req.ShippingAddress, req.Notes)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}
