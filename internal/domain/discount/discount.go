// Package discount implements promotional discount definitions, the rule
// evaluator that turns a definition and a bill subtotal into a discount
// amount, and the staff-approval state machine for discounts that need
// sign-off before they affect a bill.
package discount

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported discount strategies.
type Kind string

const (
	// KindPercentage reduces the subtotal by a percentage of itself.
	KindPercentage Kind = "PERCENTAGE"
	// KindFixed reduces the subtotal by a fixed amount, capped at the subtotal.
	KindFixed Kind = "FIXED"
)

var (
	// ErrNotFound is returned when a discount code does not exist.
	ErrNotFound = errors.New("discount code not found")
	// ErrInactive is returned when the code exists but is disabled.
	ErrInactive = errors.New("discount code is inactive")
	// ErrMinimumSpend is returned when the bill subtotal is below the
	// discount's minimum bill amount.
	ErrMinimumSpend = errors.New("bill subtotal below discount minimum")
)

// Definition is an admin-configured promotional code. The billing engine only
// reads definitions; ownership of their lifecycle sits with the admin API.
type Definition struct {
	ID                    int64
	Code                  string
	Kind                  Kind
	Value                 decimal.Decimal
	IsActive              bool
	RequiresStaffApproval bool
	// MinimumBillAmount is the eligibility floor. Zero means no floor.
	MinimumBillAmount decimal.Decimal
}

// Repository provides lookup and administration of discount definitions.
// FindByCode matches case-insensitively and returns ErrNotFound for unknown
// codes.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Definition, error)
	List(ctx context.Context) ([]Definition, error)
	ListCodes(ctx context.Context) ([]string, error)
	Create(ctx context.Context, def *Definition) error
	Update(ctx context.Context, def *Definition) error
	Delete(ctx context.Context, id int64) error
}
