// Package loyalty converts customer reward coins into currency value for
// bill redemption. Coins convert at a fixed 10:1 ratio (10 coins = 1 unit of
// currency), truncated to cents and never rounded up.
package loyalty

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// CoinsPerUnit is the number of coins worth one unit of currency.
const CoinsPerUnit = 10

var (
	// ErrInvalidCoinCount is returned for a non-positive coin request.
	ErrInvalidCoinCount = errors.New("coin count must be a positive integer")
	// ErrInsufficientCoins is returned when the request exceeds the
	// customer's available balance.
	ErrInsufficientCoins = errors.New("insufficient coin balance")
)

var coinsPerUnit = decimal.NewFromInt(CoinsPerUnit)

// Redemption is the outcome of a coin redemption computation.
type Redemption struct {
	// CoinsApplied is the number of coins actually consumed. It can be lower
	// than the requested count when the bill is worth less than the request.
	CoinsApplied int
	// CoinDiscount is the currency value granted for CoinsApplied.
	CoinDiscount decimal.Decimal
}

// ComputeRedemption converts a coin request into a redemption, validating the
// request against the customer's balance and capping the granted value at
// what the bill is worth after promotional discounts. When the cap bites,
// CoinsApplied is recomputed as floor(payable * 10) so that coins consumed
// always match the value actually granted.
//
// Requesting the whole balance and relying on the cap to self-limit is the
// supported "apply max coins" path.
func ComputeRedemption(requested, balance int, payableAfterDiscount decimal.Decimal) (Redemption, error) {
	if requested <= 0 {
		return Redemption{}, ErrInvalidCoinCount
	}
	if requested > balance {
		return Redemption{}, ErrInsufficientCoins
	}

	value := Value(requested)
	if value.GreaterThan(payableAfterDiscount) {
		applied := payableAfterDiscount.Mul(coinsPerUnit).IntPart()
		if applied < 0 {
			applied = 0
		}
		return Redemption{
			CoinsApplied: int(applied),
			CoinDiscount: Value(int(applied)),
		}, nil
	}

	return Redemption{CoinsApplied: requested, CoinDiscount: value}, nil
}

// Value returns the currency value of a coin count, truncated to cents.
func Value(coins int) decimal.Decimal {
	return decimal.NewFromInt(int64(coins)).Div(coinsPerUnit).RoundDown(2)
}
