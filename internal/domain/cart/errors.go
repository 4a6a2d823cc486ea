package cart

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for cart commands.
var (
	ErrNoWarehouse = errors.New("no warehouse selected")
	ErrEmptyCart   = errors.New("cart is empty")
)

// LineNotFoundError indicates a command referenced a line index that does not
// exist in the cart.
type LineNotFoundError struct {
	Index int
}

func (e *LineNotFoundError) Error() string {
	return fmt.Sprintf("cart line %d not found", e.Index)
}

// InvalidQuantityError indicates a non-positive quantity was requested where
// at least 1 is required.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1, got %d", e.Quantity)
}

// OutOfStockError indicates the warehouse reports zero available stock for
// the product.
type OutOfStockError struct {
	ProductID   int64
	WarehouseID int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d is out of stock in warehouse %d", e.ProductID, e.WarehouseID)
}

// InsufficientStockError indicates the requested quantity (including what is
// already in the cart for the same line) exceeds the available stock reported
// by the backend.
type InsufficientStockError struct {
	ProductID   int64
	WarehouseID int64
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d in warehouse %d: requested %d, available %d",
		e.ProductID, e.WarehouseID, e.Requested, e.Available)
}
