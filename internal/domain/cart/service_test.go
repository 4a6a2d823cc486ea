package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmdiallo/gescom-pos/internal/domain/catalog"
	"github.com/kmdiallo/gescom-pos/internal/domain/sale"
	"github.com/kmdiallo/gescom-pos/internal/domain/stock"
)

// --- Mock implementations ---

type stockKey struct {
	product   int64
	warehouse int64
}

type mockStockProvider struct {
	available map[stockKey]int
	err       error
	calls     int
}

func (m *mockStockProvider) ProductStock(_ context.Context, productID int64) ([]stock.Availability, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []stock.Availability
	for k, v := range m.available {
		if k.product == productID {
			out = append(out, stock.Availability{WarehouseID: k.warehouse, Available: v, Total: v})
		}
	}
	return out, nil
}

func (m *mockStockProvider) Availability(_ context.Context, productID, warehouseID int64) (stock.Availability, error) {
	m.calls++
	if m.err != nil {
		return stock.Availability{}, m.err
	}
	n := m.available[stockKey{product: productID, warehouse: warehouseID}]
	return stock.Availability{WarehouseID: warehouseID, Available: n, Total: n}, nil
}

type mockSaleSubmitter struct {
	lastSale *sale.Sale
	err      error
}

func (m *mockSaleSubmitter) SubmitSale(_ context.Context, s *sale.Sale) error {
	m.lastSale = s
	return m.err
}

// --- Helpers ---

func newTestProduct(id int64, name, price string) catalog.Product {
	return catalog.Product{
		ID:        id,
		Reference: "REF-TEST",
		Name:      name,
		SalePrice: decimal.RequireFromString(price),
	}
}

func newStock(entries map[stockKey]int) *mockStockProvider {
	return &mockStockProvider{available: entries}
}

// --- Tests ---

func TestAddItem_NoWarehouseSelected(t *testing.T) {
	svc := NewService(newStock(nil), &mockSaleSubmitter{})
	c := New()

	err := svc.AddItem(context.Background(), c, 0, newTestProduct(1, "Widget", "10.00"), 1)
	require.ErrorIs(t, err, ErrNoWarehouse)
	assert.Equal(t, 0, c.Len())
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	svc := NewService(newStock(nil), &mockSaleSubmitter{})
	c := New()

	err := svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 0)

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, 0, iqErr.Quantity)
}

func TestAddItem_OutOfStock(t *testing.T) {
	svc := NewService(newStock(map[stockKey]int{{product: 1, warehouse: 7}: 0}), &mockSaleSubmitter{})
	c := New()

	err := svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 1)

	var oosErr *OutOfStockError
	require.ErrorAs(t, err, &oosErr)
	assert.Equal(t, int64(1), oosErr.ProductID)
	assert.Equal(t, int64(7), oosErr.WarehouseID)
	assert.Equal(t, 0, c.Len())
}

func TestAddItem_InsufficientStock(t *testing.T) {
	svc := NewService(newStock(map[stockKey]int{{product: 1, warehouse: 7}: 3}), &mockSaleSubmitter{})
	c := New()

	err := svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 4)

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, 4, isErr.Requested)
	assert.Equal(t, 3, isErr.Available)
	assert.Equal(t, 0, c.Len())
}

func TestAddItem_SnapshotsPrice(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 10})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	p := newTestProduct(1, "Widget", "10.50")

	require.NoError(t, svc.AddItem(context.Background(), c, 7, p, 2))

	line, ok := c.Line(0)
	require.True(t, ok)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("10.50")))
	assert.Equal(t, 2, line.Quantity)
}

func TestAddItem_MergesDuplicateLine(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	p := newTestProduct(1, "Widget", "10.00")

	require.NoError(t, svc.AddItem(context.Background(), c, 7, p, 2))
	require.NoError(t, svc.AddItem(context.Background(), c, 7, p, 3))

	require.Equal(t, 1, c.Len())
	line, _ := c.Line(0)
	assert.Equal(t, 5, line.Quantity)
}

func TestAddItem_MergedQuantityExceedsStock(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	p := newTestProduct(1, "Widget", "10.00")

	require.NoError(t, svc.AddItem(context.Background(), c, 7, p, 3))
	err := svc.AddItem(context.Background(), c, 7, p, 3)

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, 6, isErr.Requested)
	assert.Equal(t, 5, isErr.Available)

	// Failed merge leaves the existing line untouched.
	line, _ := c.Line(0)
	assert.Equal(t, 3, line.Quantity)
}

func TestAddItem_SameProductDifferentWarehouse(t *testing.T) {
	stocks := newStock(map[stockKey]int{
		{product: 1, warehouse: 7}: 5,
		{product: 1, warehouse: 8}: 5,
	})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	p := newTestProduct(1, "Widget", "10.00")

	require.NoError(t, svc.AddItem(context.Background(), c, 7, p, 2))
	require.NoError(t, svc.AddItem(context.Background(), c, 8, p, 2))

	assert.Equal(t, 2, c.Len())
}

func TestAddItem_FetchesFreshAvailability(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	p := newTestProduct(1, "Widget", "10.00")

	require.NoError(t, svc.AddItem(context.Background(), c, 7, p, 1))

	// Stock drops between operations; the next add must see the new value.
	stocks.available[stockKey{product: 1, warehouse: 7}] = 1
	err := svc.AddItem(context.Background(), c, 7, p, 1)

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, 2, stocks.calls)
}

func TestAddItem_StockFetchError(t *testing.T) {
	stocks := &mockStockProvider{err: errors.New("backend down")}
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()

	err := svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 1)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestUpdateQuantity_LineNotFound(t *testing.T) {
	svc := NewService(newStock(nil), &mockSaleSubmitter{})
	c := New()

	err := svc.UpdateQuantity(context.Background(), c, 0, 2)

	var nfErr *LineNotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestUpdateQuantity_BelowOneRemovesLine(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 2))

	require.NoError(t, svc.UpdateQuantity(context.Background(), c, 0, 0))
	assert.Equal(t, 0, c.Len())
}

func TestUpdateQuantity_IncreaseChecksStock(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 2))

	err := svc.UpdateQuantity(context.Background(), c, 0, 6)

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, 6, isErr.Requested)

	line, _ := c.Line(0)
	assert.Equal(t, 2, line.Quantity)
}

func TestUpdateQuantity_DecreaseSkipsStockCheck(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 4))

	before := stocks.calls
	require.NoError(t, svc.UpdateQuantity(context.Background(), c, 0, 2))
	assert.Equal(t, before, stocks.calls)

	line, _ := c.Line(0)
	assert.Equal(t, 2, line.Quantity)
}

func TestIncrementQuantity(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 2))

	require.NoError(t, svc.IncrementQuantity(context.Background(), c, 0, 1))

	line, _ := c.Line(0)
	assert.Equal(t, 3, line.Quantity)
}

func TestIncrementQuantity_AtStockLimit(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 3})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 3))

	err := svc.IncrementQuantity(context.Background(), c, 0, 1)

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
}

func TestDecrementQuantity_RemovesAtOne(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 1))

	require.NoError(t, svc.DecrementQuantity(context.Background(), c, 0))
	assert.Equal(t, 0, c.Len())
}

func TestRemoveItem(t *testing.T) {
	stocks := newStock(map[stockKey]int{
		{product: 1, warehouse: 7}: 5,
		{product: 2, warehouse: 7}: 5,
	})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 1))
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(2, "Gadget", "20.00"), 1))

	require.NoError(t, svc.RemoveItem(c, 0))
	require.Equal(t, 1, c.Len())
	line, _ := c.Line(0)
	assert.Equal(t, int64(2), line.Product.ID)

	err := svc.RemoveItem(c, 5)
	var nfErr *LineNotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestSubmit_EmptyCart(t *testing.T) {
	svc := NewService(newStock(nil), &mockSaleSubmitter{})

	err := svc.Submit(context.Background(), New(), sale.Draft{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_InvalidDraft(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 1))

	err := svc.Submit(context.Background(), c, sale.Draft{Discount: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, sale.ErrNegativeDiscount)
	assert.Equal(t, 1, c.Len())
}

func TestSubmit_SuccessClearsCart(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	sales := &mockSaleSubmitter{}
	svc := NewService(stocks, sales)
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 3))

	clientID := int64(42)
	draft := sale.Draft{
		ClientID:    &clientID,
		PaymentMode: sale.PaymentCash,
		AmountPaid:  decimal.RequireFromString("30.00"),
	}
	require.NoError(t, svc.Submit(context.Background(), c, draft))

	assert.Equal(t, 0, c.Len())
	require.NotNil(t, sales.lastSale)
	require.Len(t, sales.lastSale.Lines, 1)
	assert.Equal(t, int64(1), sales.lastSale.Lines[0].ProductID)
	assert.Equal(t, int64(7), sales.lastSale.Lines[0].WarehouseID)
	assert.Equal(t, 3, sales.lastSale.Lines[0].Quantity)
}

func TestSubmit_FailurePreservesCart(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	sales := &mockSaleSubmitter{err: errors.New("stock insuffisant")}
	svc := NewService(stocks, sales)
	c := New()
	require.NoError(t, svc.AddItem(context.Background(), c, 7, newTestProduct(1, "Widget", "10.00"), 3))

	err := svc.Submit(context.Background(), c, sale.Draft{PaymentMode: sale.PaymentCash})
	require.Error(t, err)

	require.Equal(t, 1, c.Len())
	line, _ := c.Line(0)
	assert.Equal(t, 3, line.Quantity)
}

// The full counter flow: add within stock, reject an over-stock add, decrement
// down to an empty cart.
func TestCartLifecycle(t *testing.T) {
	stocks := newStock(map[stockKey]int{{product: 1, warehouse: 7}: 5})
	svc := NewService(stocks, &mockSaleSubmitter{})
	c := New()
	p := newTestProduct(1, "Widget", "10.00")
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, c, 7, p, 3))
	assert.Equal(t, "30.00", c.Total().StringFixed(2))

	err := svc.AddItem(ctx, c, 7, p, 4)
	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	line, _ := c.Line(0)
	assert.Equal(t, 3, line.Quantity)

	require.NoError(t, svc.DecrementQuantity(ctx, c, 0))
	require.NoError(t, svc.DecrementQuantity(ctx, c, 0))
	require.NoError(t, svc.DecrementQuantity(ctx, c, 0))

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, "0.00", c.Total().StringFixed(2))
}
