package handler

import (
	"time"

	"github.com/kmdiallo/gescom-pos/internal/domain/cart"
	"github.com/kmdiallo/gescom-pos/internal/domain/catalog"
	"github.com/kmdiallo/gescom-pos/internal/domain/checkout"
	"github.com/kmdiallo/gescom-pos/internal/domain/sale"
	"github.com/kmdiallo/gescom-pos/internal/domain/stock"
	"github.com/kmdiallo/gescom-pos/internal/session"
)

// Response views. Money is rendered with two fixed decimal places so the
// front end never re-rounds.

type productView struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Name      string `json:"name"`
	SalePrice string `json:"sale_price"`
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:        p.ID,
		Reference: p.Reference,
		Name:      p.Name,
		SalePrice: p.SalePrice.StringFixed(2),
	}
}

func toProductViews(ps []catalog.Product) []productView {
	out := make([]productView, len(ps))
	for i, p := range ps {
		out[i] = toProductView(p)
	}
	return out
}

type clientView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func toClientViews(cs []catalog.Client) []clientView {
	out := make([]clientView, len(cs))
	for i, c := range cs {
		out[i] = clientView{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
	}
	return out
}

type warehouseView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func toWarehouseViews(ws []catalog.Warehouse) []warehouseView {
	out := make([]warehouseView, len(ws))
	for i, wh := range ws {
		out[i] = warehouseView{ID: wh.ID, Name: wh.Name, Address: wh.Address}
	}
	return out
}

type availabilityView struct {
	WarehouseID int64 `json:"warehouse_id"`
	Available   int   `json:"available"`
	Total       int   `json:"total"`
	Reserved    int   `json:"reserved"`
}

func toAvailabilityViews(as []stock.Availability) []availabilityView {
	out := make([]availabilityView, len(as))
	for i, a := range as {
		out[i] = availabilityView{
			WarehouseID: a.WarehouseID,
			Available:   a.Available,
			Total:       a.Total,
			Reserved:    a.Reserved,
		}
	}
	return out
}

type lineView struct {
	Product     productView `json:"product"`
	WarehouseID int64       `json:"warehouse_id"`
	Quantity    int         `json:"quantity"`
	UnitPrice   string      `json:"unit_price"`
	Subtotal    string      `json:"subtotal"`
}

type cartView struct {
	Lines []lineView `json:"lines"`
	Total string     `json:"total"`
}

func toCartView(c *cart.Cart) cartView {
	lines := c.Lines()
	v := cartView{
		Lines: make([]lineView, len(lines)),
		Total: c.Total().StringFixed(2),
	}
	for i, l := range lines {
		v.Lines[i] = lineView{
			Product:     toProductView(l.Product),
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Subtotal:    l.Subtotal().StringFixed(2),
		}
	}
	return v
}

type draftView struct {
	ClientID    *int64  `json:"client_id"`
	Discount    string  `json:"discount"`
	PaymentMode string  `json:"payment_mode,omitempty"`
	AmountPaid  string  `json:"amount_paid"`
	DueDate     *string `json:"due_date,omitempty"`
	Notes       string  `json:"notes"`
}

func toDraftView(d sale.Draft) draftView {
	v := draftView{
		ClientID:    d.ClientID,
		Discount:    d.Discount.StringFixed(2),
		PaymentMode: string(d.PaymentMode),
		AmountPaid:  d.AmountPaid.StringFixed(2),
		Notes:       d.Notes,
	}
	if d.DueDate != nil {
		due := d.DueDate.Format(time.DateOnly)
		v.DueDate = &due
	}
	return v
}

type checkoutView struct {
	Step  checkout.Step `json:"step"`
	Draft draftView     `json:"draft"`
	Cart  cartView      `json:"cart"`
}

func toCheckoutView(f *checkout.Flow, c *cart.Cart) checkoutView {
	return checkoutView{
		Step:  f.Step(),
		Draft: toDraftView(f.Draft()),
		Cart:  toCartView(c),
	}
}

type operatorView struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type sessionView struct {
	Token       string       `json:"token"`
	Operator    operatorView `json:"operator"`
	WarehouseID int64        `json:"warehouse_id"`
}

func toSessionView(s *session.Session) sessionView {
	return sessionView{
		Token: s.Token,
		Operator: operatorView{
			Role:     s.Operator.Role,
			Email:    s.Operator.Email,
			Username: s.Operator.Username,
		},
		WarehouseID: s.WarehouseID,
	}
}

type catalogView struct {
	Products   []productView   `json:"products"`
	Clients    []clientView    `json:"clients"`
	Warehouses []warehouseView `json:"warehouses"`
}

func toCatalogView(b catalog.Bundle) catalogView {
	return catalogView{
		Products:   toProductViews(b.Products),
		Clients:    toClientViews(b.Clients),
		Warehouses: toWarehouseViews(b.Warehouses),
	}
}
