package discount

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/money"
)

// Evaluate decides eligibility of a discount against a bill subtotal and
// returns the computed discount amount. It is a pure function: persisting the
// result is the caller's concern.
//
// A percentage value of exactly 100 zeroes the subtotal rather than erroring,
// and the computed amount never exceeds the subtotal for either kind.
func Evaluate(def *Definition, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if !def.IsActive {
		return money.Zero, ErrInactive
	}
	if def.MinimumBillAmount.IsPositive() && subtotal.LessThan(def.MinimumBillAmount) {
		return money.Zero, ErrMinimumSpend
	}

	switch def.Kind {
	case KindPercentage:
		amount := money.Round2(subtotal.Mul(def.Value).Div(money.Hundred))
		amount = money.Min(amount, subtotal)
		return money.ClampNonNegative(amount), nil
	case KindFixed:
		amount := money.Min(def.Value, subtotal)
		return money.ClampNonNegative(money.Round2(amount)), nil
	default:
		return money.Zero, errors.Errorf("unsupported discount kind: %q", def.Kind)
	}
}
