// Package sale defines the finalized order draft and the submission contract
// towards the management backend.
package sale

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PaymentMode enumerates the payment methods the backend accepts.
type PaymentMode string

const (
	PaymentCash        PaymentMode = "especes"
	PaymentCard        PaymentMode = "carte"
	PaymentMobileMoney PaymentMode = "mobile_money"
	PaymentCredit      PaymentMode = "credit"
)

// Sentinel validation errors for drafts.
var (
	ErrNegativeDiscount   = errors.New("discount must not be negative")
	ErrNegativeAmountPaid = errors.New("amount paid must not be negative")
	ErrUnknownPaymentMode = errors.New("unknown payment mode")
)

// Draft is the unsaved order form state assembled during checkout. It is
// discarded on successful submission or dialog cancel, and kept intact when
// a submit fails so the operator can retry.
type Draft struct {
	ClientID    *int64
	Discount    decimal.Decimal
	PaymentMode PaymentMode // empty means not chosen; sent as null
	AmountPaid  decimal.Decimal
	DueDate     *time.Time
	Notes       string
}

// Validate checks the draft fields that can be verified without the backend.
func (d Draft) Validate() error {
	if d.Discount.IsNegative() {
		return ErrNegativeDiscount
	}
	if d.AmountPaid.IsNegative() {
		return ErrNegativeAmountPaid
	}
	switch d.PaymentMode {
	case "", PaymentCash, PaymentCard, PaymentMobileMoney, PaymentCredit:
		return nil
	default:
		return errors.Wrapf(ErrUnknownPaymentMode, "%q", d.PaymentMode)
	}
}

// Line is one order line as submitted to the backend: the product, the
// warehouse the stock is taken from, and the unit price snapshotted when the
// item entered the cart.
type Line struct {
	ProductID   int64
	WarehouseID int64
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Sale is the complete payload for order creation.
type Sale struct {
	Draft
	Lines []Line
}

// Submitter sends a finalized sale to the backend's order-creation endpoint.
// The backend is the sole authority on stock and may still reject the sale.
type Submitter interface {
	SubmitSale(ctx context.Context, s *Sale) error
}
