package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/kmdiallo/gescom-pos/internal/domain/catalog"
	"github.com/kmdiallo/gescom-pos/internal/domain/sale"
	"github.com/kmdiallo/gescom-pos/internal/domain/stock"
)

// Service executes cart commands with best-effort stock-sufficiency checks.
// Availability is re-fetched from the backend before every quantity-increasing
// operation and never cached, so each check sees the freshest snapshot the
// backend can give. The backend remains the only authority that can reject
// overcommitment at submission time.
type Service struct {
	stock stock.Provider
	sales sale.Submitter
}

// NewService creates a cart Service with the required collaborators.
func NewService(stock stock.Provider, sales sale.Submitter) *Service {
	return &Service{
		stock: stock,
		sales: sales,
	}
}

// AddItem adds quantity units of a product to the cart against the selected
// warehouse. A line already holding the same (product, warehouse) pair is
// merged, and the merged quantity is validated against the fresh availability
// snapshot, so a cart can never hold more of a line than the backend last
// reported available. New lines snapshot the product's current sale price.
//
// Nothing is mutated when validation fails.
func (s *Service) AddItem(ctx context.Context, c *Cart, warehouseID int64, p catalog.Product, quantity int) error {
	if warehouseID == 0 {
		return ErrNoWarehouse
	}
	if quantity < 1 {
		return &InvalidQuantityError{Quantity: quantity}
	}

	avail, err := s.stock.Availability(ctx, p.ID, warehouseID)
	if err != nil {
		return errors.Wrap(err, "fetch availability")
	}
	if avail.Available == 0 {
		return &OutOfStockError{ProductID: p.ID, WarehouseID: warehouseID}
	}

	if i, ok := c.find(p.ID, warehouseID); ok {
		merged := c.lines[i].Quantity + quantity
		if merged > avail.Available {
			return &InsufficientStockError{
				ProductID:   p.ID,
				WarehouseID: warehouseID,
				Requested:   merged,
				Available:   avail.Available,
			}
		}
		c.setQuantity(i, merged)
		return nil
	}

	if quantity > avail.Available {
		return &InsufficientStockError{
			ProductID:   p.ID,
			WarehouseID: warehouseID,
			Requested:   quantity,
			Available:   avail.Available,
		}
	}
	c.append(Line{
		Product:     p,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		UnitPrice:   p.SalePrice,
	})
	return nil
}

// UpdateQuantity sets the quantity of line i. A quantity below 1 removes the
// line. Increases re-fetch availability and are rejected without mutation
// when they exceed it; decreases need no stock check.
func (s *Service) UpdateQuantity(ctx context.Context, c *Cart, i, quantity int) error {
	line, ok := c.Line(i)
	if !ok {
		return &LineNotFoundError{Index: i}
	}

	if quantity < 1 {
		c.remove(i)
		return nil
	}

	if quantity > line.Quantity {
		avail, err := s.stock.Availability(ctx, line.Product.ID, line.WarehouseID)
		if err != nil {
			return errors.Wrap(err, "fetch availability")
		}
		if quantity > avail.Available {
			return &InsufficientStockError{
				ProductID:   line.Product.ID,
				WarehouseID: line.WarehouseID,
				Requested:   quantity,
				Available:   avail.Available,
			}
		}
	}

	c.setQuantity(i, quantity)
	return nil
}

// IncrementQuantity raises the quantity of line i by step (1 when step < 1).
func (s *Service) IncrementQuantity(ctx context.Context, c *Cart, i, step int) error {
	if step < 1 {
		step = 1
	}
	line, ok := c.Line(i)
	if !ok {
		return &LineNotFoundError{Index: i}
	}
	return s.UpdateQuantity(ctx, c, i, line.Quantity+step)
}

// DecrementQuantity lowers the quantity of line i by one. Decrementing a
// quantity-1 line removes it, matching the update-to-zero rule.
func (s *Service) DecrementQuantity(ctx context.Context, c *Cart, i int) error {
	line, ok := c.Line(i)
	if !ok {
		return &LineNotFoundError{Index: i}
	}
	return s.UpdateQuantity(ctx, c, i, line.Quantity-1)
}

// RemoveItem deletes line i unconditionally.
func (s *Service) RemoveItem(c *Cart, i int) error {
	if _, ok := c.Line(i); !ok {
		return &LineNotFoundError{Index: i}
	}
	c.remove(i)
	return nil
}

// Submit finalizes the cart with the given draft and sends it to the backend.
// On success the cart is cleared. On failure the cart is left untouched so
// the operator can fix the problem and retry; the returned error carries the
// most specific message the backend provided.
func (s *Service) Submit(ctx context.Context, c *Cart, d sale.Draft) error {
	if c.Len() == 0 {
		return ErrEmptyCart
	}
	if err := d.Validate(); err != nil {
		return err
	}

	lines := make([]sale.Line, 0, c.Len())
	for _, l := range c.lines {
		lines = append(lines, sale.Line{
			ProductID:   l.Product.ID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	if err := s.sales.SubmitSale(ctx, &sale.Sale{Draft: d, Lines: lines}); err != nil {
		return errors.Wrap(err, "submit sale")
	}

	c.Clear()
	return nil
}
