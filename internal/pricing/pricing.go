package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveQuantity = errors.New("line quantity must be greater than zero")
	ErrNegativeUnitPrice   = errors.New("line unit price cannot be negative")
	ErrNegativeDiscount    = errors.New("discount cannot be negative")
	ErrDiscountTooLarge    = errors.New("discount exceeds subtotal plus tax")
)

// LineInput is a single priced position: the unit price snapshot and how many units.
type LineInput struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote holds the computed monetary breakdown of an order. Discount is the
// applied discount after rounding; callers persist it, not their raw input.
type Quote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Calculator computes order totals with a fixed tax rate.
// All arithmetic is decimal; results are rounded to two places.
type Calculator struct {
	taxRate decimal.Decimal
}

func NewCalculator(taxRate decimal.Decimal) *Calculator {
	return &Calculator{taxRate: taxRate}
}

// Quote computes subtotal, tax and total for the given lines and discount.
// It never mutates its inputs and performs no IO.
func (c *Calculator) Quote(lines []LineInput, discount decimal.Decimal) (Quote, error) {
	subtotal := decimal.Zero

	for i, line := range lines {
		if line.Quantity <= 0 {
			return Quote{}, fmt.Errorf("line %d: %w", i, ErrNonPositiveQuantity)
		}
		if line.UnitPrice.IsNegative() {
			return Quote{}, fmt.Errorf("line %d: %w", i, ErrNegativeUnitPrice)
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(c.taxRate).Round(2)

	if discount.IsNegative() {
		return Quote{}, ErrNegativeDiscount
	}
	// Money columns hold two decimal places; a sub-cent discount must be
	// rounded here, before the total is computed, or the stored breakdown
	// would not reconcile on re-read.
	discount = discount.Round(2)
	if discount.GreaterThan(subtotal.Add(tax)) {
		return Quote{}, ErrDiscountTooLarge
	}

	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(tax).Sub(discount),
	}, nil
}

// LineSubtotal is the price of a single line: unit price times quantity, rounded.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
