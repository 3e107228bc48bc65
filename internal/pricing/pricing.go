// Package pricing holds the pure arithmetic behind cart totals, coupon
// discounts, shipping thresholds and checkout reconciliation.
//
// Every monetary value is a decimal.Decimal in currency units. Discounts are
// rounded half away from zero to MinorUnitPlaces decimal places, and that is
// the only place rounding happens.
package pricing

import (
	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places of the currency minor unit.
const MinorUnitPlaces = 2

var hundred = decimal.NewFromInt(100)

// Line is the pricing view of a cart line item.
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// LineTotal returns price * quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Subtotal sums the line totals of all lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Price, l.Quantity))
	}
	return total
}

// TotalItems sums the quantities of all lines.
func TotalItems(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// PercentDiscount returns subtotal * percent / 100 rounded to the minor unit.
func PercentDiscount(subtotal decimal.Decimal, percent int) decimal.Decimal {
	return subtotal.
		Mul(decimal.NewFromInt(int64(percent))).
		Div(hundred).
		Round(MinorUnitPlaces)
}

// EffectiveShippingFee returns zero when a free-shipping threshold is set and
// the subtotal reaches it, otherwise the flat fee.
func EffectiveShippingFee(subtotal, flatFee, freeOver decimal.Decimal) decimal.Decimal {
	if freeOver.IsPositive() && subtotal.GreaterThanOrEqual(freeOver) {
		return decimal.Zero
	}
	return flatFee
}

// Reconcile derives the payable amount from authoritative components and
// never returns a negative value.
func Reconcile(subtotal, discount, shippingFee decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount).Add(shippingFee)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ToMinorUnits converts an amount in currency units to an integer amount of
// minor units (cents), as payment gateways expect.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(MinorUnitPlaces).Round(0).IntPart()
}
