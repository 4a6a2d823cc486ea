package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kmdiallo/gescom-pos/internal/domain/catalog"
	"github.com/kmdiallo/gescom-pos/internal/domain/checkout"
	"github.com/kmdiallo/gescom-pos/internal/domain/sale"
)

// Checkout dialog state errors.
var (
	errNoCheckout   = errors.New("no checkout in progress")
	errCheckoutOpen = errors.New("checkout already in progress")
)

// openCheckout opens the finalize dialog at the client-and-payment step.
func (h *Handler) openCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.Cart.Len() == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}
	if sess.Checkout != nil {
		respondError(w, r, errCheckoutOpen)
		return
	}

	sess.Checkout = checkout.Begin()
	writeJSON(w, http.StatusCreated, toCheckoutView(sess.Checkout, sess.Cart))
}

type fillCheckoutRequest struct {
	ClientID    *int64          `json:"client_id"`
	Discount    decimal.Decimal `json:"discount"`
	PaymentMode string          `json:"payment_mode"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	DueDate     *string         `json:"due_date"`
	Notes       string          `json:"notes"`
}

// fillCheckout stores the client and payment details and advances the dialog
// to the review step.
func (h *Handler) fillCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.Checkout == nil {
		respondError(w, r, errNoCheckout)
		return
	}

	var req fillCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	draft := sale.Draft{
		ClientID:    req.ClientID,
		Discount:    req.Discount,
		PaymentMode: sale.PaymentMode(req.PaymentMode),
		AmountPaid:  req.AmountPaid,
		Notes:       req.Notes,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse(time.DateOnly, *req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
			return
		}
		draft.DueDate = &due
	}

	if err := sess.Checkout.Fill(draft); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutView(sess.Checkout, sess.Cart))
}

// checkoutBack returns from review to the client-and-payment step.
func (h *Handler) checkoutBack(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.Checkout == nil {
		respondError(w, r, errNoCheckout)
		return
	}
	if err := sess.Checkout.Back(); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutView(sess.Checkout, sess.Cart))
}

type confirmResponse struct {
	Status  string      `json:"status"`
	Catalog catalogView `json:"catalog"`
}

// confirmCheckout submits the sale. Success clears the cart, closes the
// dialog, and returns freshly re-fetched reference data so the front end can
// refresh everything in one round trip. Failure leaves the cart, the dialog,
// and the draft untouched for a retry.
func (h *Handler) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.Checkout == nil {
		respondError(w, r, errNoCheckout)
		return
	}
	if err := sess.Checkout.ConfirmReady(); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carts.Submit(r.Context(), sess.Cart, sess.Checkout.Draft()); err != nil {
		respondError(w, r, err)
		return
	}
	sess.Checkout = nil

	bundle, err := h.refreshCatalog(r.Context())
	if err != nil {
		// The sale went through; a failed refresh must not look like a failed
		// submit. Return success with an empty catalog and let the front end
		// re-fetch on its own.
		writeJSON(w, http.StatusCreated, confirmResponse{Status: "ok"})
		return
	}
	writeJSON(w, http.StatusCreated, confirmResponse{Status: "ok", Catalog: toCatalogView(bundle)})
}

// cancelCheckout closes the dialog and discards the draft. The cart survives.
func (h *Handler) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.Checkout == nil {
		respondError(w, r, errNoCheckout)
		return
	}
	sess.Checkout = nil
	w.WriteHeader(http.StatusNoContent)
}

// refreshCatalog re-fetches products, clients, and warehouses concurrently.
func (h *Handler) refreshCatalog(parent context.Context) (catalog.Bundle, error) {
	var bundle catalog.Bundle
	g, ctx := errgroup.WithContext(parent)
	g.Go(func() error {
		var err error
		bundle.Products, err = h.catalog.Products(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Clients, err = h.catalog.Clients(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Warehouses, err = h.catalog.Warehouses(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.Bundle{}, err
	}
	return bundle, nil
}
