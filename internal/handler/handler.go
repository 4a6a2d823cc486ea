// Package handler exposes the terminal's commands over HTTP. Each endpoint is
// the explicit form of a UI event handler: it decodes a command, runs it
// against the session's cart or checkout flow, and returns a result or a
// typed error.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/kmdiallo/gescom-pos/internal/backend"
	"github.com/kmdiallo/gescom-pos/internal/domain/cart"
	"github.com/kmdiallo/gescom-pos/internal/domain/catalog"
	"github.com/kmdiallo/gescom-pos/internal/domain/checkout"
	"github.com/kmdiallo/gescom-pos/internal/domain/sale"
	"github.com/kmdiallo/gescom-pos/internal/domain/stock"
	"github.com/kmdiallo/gescom-pos/internal/session"
)

// SessionHeader carries the terminal session token.
const SessionHeader = "X-Session-Token"

// Handler wires the domain services to the HTTP surface.
type Handler struct {
	catalog  catalog.Source
	stock    stock.Provider
	carts    *cart.Service
	sessions *session.Store
}

// New constructs a Handler with the required collaborators.
func New(
	catalogSrc catalog.Source,
	stockProvider stock.Provider,
	carts *cart.Service,
	sessions *session.Store,
) *Handler {
	return &Handler{
		catalog:  catalogSrc,
		stock:    stockProvider,
		carts:    carts,
		sessions: sessions,
	}
}

// Register mounts all terminal routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.openSession)

	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Delete("/sessions/current", h.closeSession)
		r.Put("/sessions/current/warehouse", h.selectWarehouse)

		r.Get("/catalog/products", h.listProducts)
		r.Get("/catalog/clients", h.listClients)
		r.Get("/catalog/warehouses", h.listWarehouses)
		r.Get("/stock", h.productStock)

		r.Get("/cart", h.getCart)
		r.Post("/cart/items", h.addItem)
		r.Put("/cart/items/{index}", h.setQuantity)
		r.Post("/cart/items/{index}/increment", h.incrementItem)
		r.Post("/cart/items/{index}/decrement", h.decrementItem)
		r.Delete("/cart/items/{index}", h.removeItem)
		r.Delete("/cart", h.clearCart)

		r.Post("/checkout", h.openCheckout)
		r.Put("/checkout", h.fillCheckout)
		r.Post("/checkout/back", h.checkoutBack)
		r.Post("/checkout/confirm", h.confirmCheckout)
		r.Delete("/checkout", h.cancelCheckout)
	})
}

// sessionKey is the context key for the resolved session.
type sessionKey struct{}

// withSession resolves the session token and serializes the request against
// the session's command lock, so two rapid commands from the same terminal
// cannot interleave their stock checks on one cart.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(SessionHeader)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}
		sess, ok := h.sessions.Get(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unknown or expired session")
			return
		}

		sess.Lock()
		defer sess.Unlock()

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Code: status, Message: msg})
}

// respondError maps domain and backend errors to HTTP statuses. Validation
// problems are 400, stock rejections 422, unknown line indexes 404, dialog
// state conflicts 409. Backend 4xx responses pass their status and message
// through; backend 5xx and transport failures surface as 502 so the operator
// sees the most specific message available while the cart stays intact.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		lineErr  *cart.LineNotFoundError
		qtyErr   *cart.InvalidQuantityError
		oosErr   *cart.OutOfStockError
		stockErr *cart.InsufficientStockError
		apiErr   *backend.APIError
	)

	switch {
	case errors.As(err, &lineErr):
		writeError(w, http.StatusNotFound, lineErr.Error())
	case errors.As(err, &qtyErr):
		writeError(w, http.StatusBadRequest, qtyErr.Error())
	case errors.Is(err, cart.ErrNoWarehouse),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, sale.ErrNegativeDiscount),
		errors.Is(err, sale.ErrNegativeAmountPaid),
		errors.Is(err, sale.ErrUnknownPaymentMode):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &oosErr):
		writeError(w, http.StatusUnprocessableEntity, oosErr.Error())
	case errors.As(err, &stockErr):
		writeError(w, http.StatusUnprocessableEntity, stockErr.Error())
	case errors.Is(err, checkout.ErrAlreadyAtFirstStep),
		errors.Is(err, checkout.ErrNotAtReview),
		errors.Is(err, errNoCheckout),
		errors.Is(err, errCheckoutOpen):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = apiErr.StatusCode
		}
		writeError(w, status, apiErr.Message)
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
