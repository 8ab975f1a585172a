// Package money holds the currency arithmetic helpers shared by the pricing
// components. All authoritative amounts are shopspring decimals; rounding
// happens only at the boundaries the callers designate, never after every
// intermediate operation.
package money

import "github.com/shopspring/decimal"

var (
	// Zero is the zero amount.
	Zero = decimal.Zero
	// Hundred is used for percentage math.
	Hundred = decimal.NewFromInt(100)
)

// Round2 rounds half-up to two decimal places, the display and storage
// precision of the domain currency.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ClampNonNegative floors negative amounts at zero.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	return decimal.Min(a, b)
}
