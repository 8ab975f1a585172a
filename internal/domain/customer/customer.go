// Package customer holds the customer profile and loyalty coin balance.
package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a customer does not exist.
	ErrNotFound = errors.New("customer not found")
	// ErrInsufficientBalance is returned when a coin debit would take the
	// balance below zero. It signals a race with another redemption: the
	// balance checked at computation time no longer holds.
	ErrInsufficientBalance = errors.New("coin balance too low")
)

// Customer is a guest identified by phone number. LoyaltyCoins is the
// authoritative redemption cap for coin redemption.
type Customer struct {
	ID           string
	Phone        string
	LoyaltyCoins int
	LastSeenAt   time.Time
}

// Repository provides customer lookup and atomic coin balance adjustment.
// AdjustCoins applies a signed delta; negative deltas must fail with
// ErrInsufficientBalance rather than drive the balance negative.
type Repository interface {
	Get(ctx context.Context, id string) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	AdjustCoins(ctx context.Context, id string, delta int) error
}
