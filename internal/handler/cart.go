package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, toCartView(sess.Cart))
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// addItem resolves the product, checks fresh availability against the
// session's warehouse, and adds or merges a cart line.
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	sess := sessionFrom(r.Context())

	p, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carts.AddItem(r.Context(), sess.Cart, sess.WarehouseID, *p, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(sess.Cart))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// setQuantity sets the quantity of a line; zero or less removes it.
func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	i, ok := lineIndex(w, r)
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	sess := sessionFrom(r.Context())
	if err := h.carts.UpdateQuantity(r.Context(), sess.Cart, i, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(sess.Cart))
}

func (h *Handler) incrementItem(w http.ResponseWriter, r *http.Request) {
	i, ok := lineIndex(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r.Context())
	if err := h.carts.IncrementQuantity(r.Context(), sess.Cart, i, 1); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(sess.Cart))
}

func (h *Handler) decrementItem(w http.ResponseWriter, r *http.Request) {
	i, ok := lineIndex(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r.Context())
	if err := h.carts.DecrementQuantity(r.Context(), sess.Cart, i); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(sess.Cart))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	i, ok := lineIndex(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r.Context())
	if err := h.carts.RemoveItem(sess.Cart, i); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(sess.Cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Cart.Clear()
	writeJSON(w, http.StatusOK, toCartView(sess.Cart))
}

// lineIndex parses the {index} route parameter.
func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 {
		writeError(w, http.StatusBadRequest, "invalid line index")
		return 0, false
	}
	return i, true
}
