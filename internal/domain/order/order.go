// Package order models placed orders and their kitchen-progress lifecycle.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is an order's kitchen-progress state. Progression is monotonic
// forward (Pending → Preparing → Ready → Served); Cancelled is terminal and
// reachable from any non-terminal state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusServed    Status = "Served"
	StatusCancelled Status = "Cancelled"
)

var statusRank = map[Status]int{
	StatusPending:   1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusServed:    4,
}

// ActiveStatuses are the states still tracked on live kitchen views.
var ActiveStatuses = []Status{StatusPending, StatusPreparing, StatusReady}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusCancelled
}

// IsActive reports whether s belongs to the live kitchen set.
func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is allowed: any
// forward move along the progression, or cancellation of a non-terminal
// order.
func (s Status) CanTransition(next Status) bool {
	if next == StatusCancelled {
		return !s.IsTerminal()
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// InvalidTransitionError reports a disallowed status change.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

// Sentinel errors for order validation.
var (
	ErrNotFound   = errors.New("order not found")
	ErrEmptyItems = errors.New("items required")
)

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	DishID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for dish %d", e.DishID)
}

// LineItem is a dish and quantity on an order. UnitPrice is captured at
// order time so later menu edits do not change history.
type LineItem struct {
	DishID    int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Order is a single placed set of line items, belonging to at most one bill
// once served.
type Order struct {
	ID          string
	CustomerID  string
	TableNumber int
	Items       []LineItem
	Status      Status
	BillID      string
	CreatedAt   time.Time
}

// Subtotal is the sum of quantity * unit price across the order's items.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Repository defines persistence for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	ListActive(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	ListByBill(ctx context.Context, billID string) ([]Order, error)
}
