// Package stock defines the availability snapshot the terminal consults
// before any quantity-increasing cart operation.
package stock

import "context"

// Availability is a read-only snapshot of stock for one (product, warehouse)
// pair as reported by the backend. Available is what may still be sold;
// Reserved is already committed to other orders.
type Availability struct {
	WarehouseID int64
	Available   int
	Total       int
	Reserved    int
}

// Provider reports fresh availability. Implementations must not cache across
// calls: each quantity increase re-checks against the backend so the terminal
// favours freshness over round-trip cost.
type Provider interface {
	// ProductStock returns availability for a product across all warehouses.
	ProductStock(ctx context.Context, productID int64) ([]Availability, error)

	// Availability returns the snapshot for a single (product, warehouse)
	// pair. A warehouse the backend does not report is treated as holding
	// zero stock.
	Availability(ctx context.Context, productID, warehouseID int64) (Availability, error)
}
