package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkoutdomain "github.com/dwikikusuma/storefront/internal/checkout/domain"
	dashboardapp "github.com/dwikikusuma/storefront/internal/dashboard/app"
	orderapp "github.com/dwikikusuma/storefront/internal/order/app"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const sessionHeader = "X-Session-ID"
const userHeader = "X-User-ID"

type Handler struct {
	log       *slog.Logger
	carts     *cartapp.Service
	catalog   *catalogapp.Service
	checkout  *checkoutapp.Service
	orders    *orderapp.Service
	dashboard *dashboardapp.Service
	tracer    trace.Tracer
}

func NewHandler(
	log *slog.Logger,
	carts *cartapp.Service,
	catalog *catalogapp.Service,
	checkout *checkoutapp.Service,
	orders *orderapp.Service,
	dashboard *dashboardapp.Service,
) *Handler {
	return &Handler{
		log:       log,
		carts:     carts,
		catalog:   catalog,
		checkout:  checkout,
		orders:    orders,
		dashboard: dashboard,
		tracer:    otel.Tracer("storefront-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Get("/count", h.cartCount)
		r.Post("/items", h.addCartItem)
		r.Put("/items/{productID}", h.updateCartItem)
		r.Delete("/items/{productID}", h.removeCartItem)
		r.Delete("/", h.clearCart)
	})

	r.Post("/checkout", h.postCheckout)

	r.Get("/orders", h.listUserOrders)
	r.Get("/orders/{id}", h.getOrder)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Get("/orders", h.listAllOrders)
		r.Patch("/orders/{id}/status", h.updateOrderStatus)
		r.Get("/dashboard", h.getDashboard)
		r.Post("/dashboard/refresh", h.refreshDashboard)
	})

	return r
}

type errorResponse struct {
	Error    string                   `json:"error"`
	Code     string                   `json:"code"`
	Problems []checkoutdomain.Problem `json:"problems,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var stockErr *checkoutdomain.StockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:    "some items cannot be purchased",
			Code:     "STOCK_CONFLICT",
			Problems: stockErr.Problems,
		})
		return
	}

	switch {
	case errors.Is(err, cartapp.ErrProductNotFound),
		errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, orderapp.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "NOT_FOUND"})

	case errors.Is(err, cartapp.ErrUnavailable),
		errors.Is(err, cartapp.ErrExpired),
		errors.Is(err, cartapp.ErrInsufficientStock):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "STOCK_CONFLICT"})

	case errors.Is(err, cartapp.ErrInvalidQuantity),
		errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, orderapp.ErrInvalidInput),
		errors.Is(err, orderdomain.ErrUnknownStatus),
		errors.Is(err, checkoutdomain.ErrEmptyCart),
		errors.Is(err, checkoutdomain.ErrMissingAddress),
		errors.Is(err, checkoutdomain.ErrMissingUser):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "INVALID_ARGUMENT"})

	default:
		h.log.Error("internal error", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "INTERNAL"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sessionID(r *http.Request) string {
	return r.Header.Get(sessionHeader)
}

func userID(r *http.Request) string {
	return r.Header.Get(userHeader)
}

func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid := sessionID(r)
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "missing " + sessionHeader + " header",
			Code:  "INVALID_ARGUMENT",
		})
		return "", false
	}
	return sid, true
}
