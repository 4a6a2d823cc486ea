// Package catalog holds the reference data the terminal works against:
// products, clients, and warehouses. The data is owned by the management
// backend and is re-fetched on demand, never cached locally.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. SalePrice is the current unit price;
// the cart snapshots it at add time so a later price change does not affect
// lines already in a draft order.
type Product struct {
	ID        int64
	Reference string
	Name      string
	SalePrice decimal.Decimal
}

// Client is a registered customer. Orders may also be placed anonymously,
// in which case no client is attached to the sale.
type Client struct {
	ID    int64
	Name  string
	Phone string
	Email string
}

// Warehouse is a stock-holding location. Every cart line and every
// availability figure is scoped to exactly one warehouse.
type Warehouse struct {
	ID      int64
	Name    string
	Address string
}

// Source provides read access to the backend's reference data.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	Product(ctx context.Context, id int64) (*Product, error)
	Clients(ctx context.Context) ([]Client, error)
	Warehouses(ctx context.Context) ([]Warehouse, error)
}

// Bundle groups one consistent fetch of all reference data, as returned to
// the front end after a completed sale.
type Bundle struct {
	Products   []Product
	Clients    []Client
	Warehouses []Warehouse
}
