// Package billing holds the bill aggregate and the single authoritative
// subtotal → discount → coins → tax → final computation. Every surface that
// shows a total (POS preview, admin billing, customer bill view) is a thin
// consumer of ComposeTotal; the formula is not allowed to live anywhere else.
package billing

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
	"github.com/varun0122/Restaurant-Management/internal/domain/money"
)

var (
	// ErrNotFound is returned when a bill does not exist.
	ErrNotFound = errors.New("bill not found")
	// ErrBillPaid is returned for any mutation attempted on a paid bill.
	ErrBillPaid = errors.New("bill already paid")
	// ErrDiscountAlreadyApplied is returned when applying a discount while
	// another one is active. The caller must remove the current one first.
	ErrDiscountAlreadyApplied = errors.New("a discount is already applied to this bill")
	// ErrStaleBill is returned when a mutation raced with another writer.
	// Callers should refetch the bill and retry.
	ErrStaleBill = errors.New("bill state is stale")
	// ErrNoPendingRequest is returned when resolving a discount request on a
	// bill that has none.
	ErrNoPendingRequest = errors.New("no pending discount request")
	// ErrStaffOnly is returned when a non-staff actor attempts a staff-only
	// operation.
	ErrStaffOnly = errors.New("staff role required")
)

// Bill aggregates all unpaid orders for a table. The subtotal is always
// server-computed from the line items of the bill's orders; discounts and
// coin redemption mutate the bill while unpaid, and a paid bill is immutable.
type Bill struct {
	ID          string
	TableNumber int

	// Subtotal is the sum of quantity * unit price across the bill's orders.
	Subtotal decimal.Decimal

	// AppliedDiscount is nil when no discount is active. At most one
	// discount is applied to a bill at any time.
	AppliedDiscount *discount.Definition
	DiscountAmount  decimal.Decimal

	// PendingDiscountCode is non-empty while a staff-approval request is
	// outstanding. The pending discount is not reflected in totals.
	PendingDiscountCode string

	// CoinsRedeemed and CoinDiscount record the active loyalty redemption.
	// CoinsCustomerID identifies the customer whose balance was debited.
	CoinsRedeemed   int
	CoinDiscount    decimal.Decimal
	CoinsCustomerID string

	IsPaid    bool
	CreatedAt time.Time
	PaidAt    *time.Time

	// Version implements optimistic concurrency: updates only succeed when
	// the stored version still matches.
	Version int64
}

// ApprovalState derives the discount-approval state machine position from the
// bill's fields.
func (b *Bill) ApprovalState() discount.ApprovalState {
	switch {
	case b.PendingDiscountCode != "":
		return discount.ApprovalRequested
	case b.AppliedDiscount != nil && b.AppliedDiscount.RequiresStaffApproval:
		return discount.ApprovalApproved
	default:
		return discount.ApprovalNone
	}
}

// DiscountRequestPending reports whether a staff-approval request is
// outstanding.
func (b *Bill) DiscountRequestPending() bool {
	return b.PendingDiscountCode != ""
}

// PayableAfterDiscount is the pre-tax amount still owed after the applied
// promotional discount. This is the cap for coin redemption: coins cannot
// redeem more value than the bill is worth.
func (b *Bill) PayableAfterDiscount() decimal.Decimal {
	return money.ClampNonNegative(b.Subtotal.Sub(b.DiscountAmount))
}

// Table summarizes a dining table's billing state. OpenBillID is empty when
// the table has no unpaid bill.
type Table struct {
	Number     int
	OpenBillID string
}

// TableDirectory lists dining tables with their open bills.
type TableDirectory interface {
	ListTables(ctx context.Context) ([]Table, error)
}

// Repository defines persistence for bills. Update must compare-and-swap on
// Bill.Version, returning ErrStaleBill when the stored version differs, and
// increment the version on success. Get and friends return bills with the
// server-computed subtotal populated.
type Repository interface {
	Get(ctx context.Context, id string) (*Bill, error)
	GetOrCreateOpenForTable(ctx context.Context, tableNumber int) (*Bill, error)
	ListUnpaid(ctx context.Context) ([]Bill, error)
	ListUnpaidForCustomer(ctx context.Context, customerID string) ([]Bill, error)
	Update(ctx context.Context, b *Bill) error
}
