package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	orderapp "github.com/dwikikusuma/storefront/internal/order/app"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/go-chi/chi/v5"
)

type orderResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"userId"`
	OrderDate       time.Time             `json:"orderDate"`
	Status          string                `json:"status"`
	TotalPrice      int64                 `json:"totalPrice"`
	ShippingAddress string                `json:"shippingAddress"`
	Notes           string                `json:"notes,omitempty"`
	Details         []orderDetailResponse `json:"details"`
}

type orderDetailResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	Weight      int64  `json:"weight"`
	WeightUnit  string `json:"weightUnit"`
	Flavor      string `json:"flavor,omitempty"`
}

func toOrderResponse(o orderdomain.Order) orderResponse {
	details := make([]orderDetailResponse, 0, len(o.Details))
	for _, d := range o.Details {
		details = append(details, orderDetailResponse{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitCents,
			Weight:      d.Weight,
			WeightUnit:  d.WeightUnit,
			Flavor:      d.Flavor,
		})
	}

	return orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderDate:       o.OrderDate,
		Status:          string(o.Status),
		TotalPrice:      o.TotalCents,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Details:         details,
	}
}

func toOrderResponses(orders []orderdomain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func (h *Handler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "missing " + userHeader + " header",
			Code:  "INVALID_ARGUMENT",
		})
		return
	}

	orders, err := h.orders.GetUserOrders(r.Context(), uid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	f, err := parseOrderFilter(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: "INVALID_ARGUMENT"})
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func parseOrderFilter(r *http.Request) (orderapp.Filter, error) {
	q := r.URL.Query()
	var f orderapp.Filter

	if s := q.Get("status"); s != "" {
		parsed, err := orderdomain.ParseStatus(s)
		if err != nil {
			return orderapp.Filter{}, err
		}
		f.Status = &parsed
	}
	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return orderapp.Filter{}, orderapp.ErrInvalidInput
		}
		f.From = &t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return orderapp.Filter{}, orderapp.ErrInvalidInput
		}
		f.To = &t
	}
	f.Search = q.Get("search")

	return f, nil
}
