package handler

import (
	"net/http"
	"strconv"
)

// Catalog endpoints proxy the backend's reference data. Nothing is cached:
// every request hits the backend so the terminal always shows current data.

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductViews(products))
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.catalog.Clients(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientViews(clients))
}

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.catalog.Warehouses(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWarehouseViews(warehouses))
}

// productStock returns the availability snapshot for ?product=<id> across all
// warehouses.
func (h *Handler) productStock(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.URL.Query().Get("product"), 10, 64)
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, "product query parameter is required")
		return
	}

	stocks, err := h.stock.ProductStock(r.Context(), productID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stocks": toAvailabilityViews(stocks)})
}
