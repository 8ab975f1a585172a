package billing

import (
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/money"
)

// DefaultTaxRate is applied when a deployment does not configure its own.
var DefaultTaxRate = decimal.RequireFromString("0.05")

// Totals is the computed breakdown of a bill, ready for display or payment.
type Totals struct {
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	CoinDiscount       decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	TaxAmount          decimal.Decimal
	FinalAmount        decimal.Decimal
}

// ComposeTotal combines a subtotal, a promotional discount, and a coin
// redemption into the final payable amount. Discounts and coin redemption
// reduce the pre-tax subtotal; tax applies to the discounted amount, never to
// the raw subtotal. Rounding happens at the tax and final boundaries only.
func ComposeTotal(subtotal, discountAmount, coinDiscount, taxRate decimal.Decimal) Totals {
	discounted := money.ClampNonNegative(subtotal.Sub(discountAmount).Sub(coinDiscount))
	tax := money.Round2(discounted.Mul(taxRate))
	final := money.Round2(discounted.Add(tax))

	return Totals{
		Subtotal:           subtotal,
		DiscountAmount:     discountAmount,
		CoinDiscount:       coinDiscount,
		DiscountedSubtotal: discounted,
		TaxAmount:          tax,
		FinalAmount:        final,
	}
}

// Totals computes the bill's breakdown at the given tax rate.
func (b *Bill) Totals(taxRate decimal.Decimal) Totals {
	return ComposeTotal(b.Subtotal, b.DiscountAmount, b.CoinDiscount, taxRate)
}
