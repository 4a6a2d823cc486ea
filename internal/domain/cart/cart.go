// Package cart implements the draft-order cart: an in-memory list of product
// lines scoped to a warehouse, validated against backend-reported stock
// availability before every quantity increase.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/kmdiallo/gescom-pos/internal/domain/catalog"
)

// Line is one cart entry. Lines are unique per (product ID, warehouse ID);
// adding the same product from the same warehouse again merges quantities.
// UnitPrice is the product's sale price snapshotted when the line was created.
type Line struct {
	Product     catalog.Product
	WarehouseID int64
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal returns quantity times unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines. It holds no I/O and no locking; callers
// serialize access (the session layer holds one cart per operator session).
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line at index i.
func (c *Cart) Line(i int) (Line, bool) {
	if i < 0 || i >= len(c.lines) {
		return Line{}, false
	}
	return c.lines[i], true
}

// find returns the index of the line matching (productID, warehouseID).
func (c *Cart) find(productID, warehouseID int64) (int, bool) {
	for i, l := range c.lines {
		if l.Product.ID == productID && l.WarehouseID == warehouseID {
			return i, true
		}
	}
	return 0, false
}

// append adds a new line.
func (c *Cart) append(l Line) {
	c.lines = append(c.lines, l)
}

// setQuantity replaces the quantity of line i.
func (c *Cart) setQuantity(i, quantity int) {
	c.lines[i].Quantity = quantity
}

// remove deletes line i, preserving the order of the remaining lines.
func (c *Cart) remove(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total returns the sum of line subtotals rounded to 2 decimal places. It is
// pure: the displayed order total is always recomputed from the lines, never
// stored.
func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum.Round(2)
}
