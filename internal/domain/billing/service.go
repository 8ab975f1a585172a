package billing

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/customer"
	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
	"github.com/varun0122/Restaurant-Management/internal/domain/loyalty"
	"github.com/varun0122/Restaurant-Management/internal/domain/money"
)

var (
	// ErrCustomerRequired is returned when a coin operation arrives without
	// a customer identity.
	ErrCustomerRequired = errors.New("customer identity required for coin redemption")
	// ErrCoinsAlreadyApplied is returned when a different customer's coins
	// are already redeemed against the bill.
	ErrCoinsAlreadyApplied = errors.New("coins already applied by another customer")
)

// Service orchestrates bill mutations: discount application with the staff
// approval workflow, loyalty coin redemption, and payment. All computation is
// delegated to the pure evaluator, redemption calculator, and composer; the
// service adds persistence, actor rules, and optimistic concurrency.
type Service struct {
	bills     Repository
	discounts discount.Repository
	customers customer.Repository
	taxRate   decimal.Decimal
	now       func() time.Time
}

// NewService creates a billing Service. A zero taxRate selects
// DefaultTaxRate.
func NewService(bills Repository, discounts discount.Repository, customers customer.Repository, taxRate decimal.Decimal) *Service {
	if taxRate.IsZero() {
		taxRate = DefaultTaxRate
	}
	return &Service{
		bills:     bills,
		discounts: discounts,
		customers: customers,
		taxRate:   taxRate,
		now:       time.Now,
	}
}

// TaxRate returns the configured tax rate.
func (s *Service) TaxRate() decimal.Decimal { return s.taxRate }

// Totals composes the breakdown for a bill at the configured tax rate.
func (s *Service) Totals(b *Bill) Totals { return b.Totals(s.taxRate) }

// Get returns a bill with its composed totals.
func (s *Service) Get(ctx context.Context, billID string) (*Bill, Totals, error) {
	b, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, Totals{}, err
	}
	return b, s.Totals(b), nil
}

// ListUnpaid returns all open bills, oldest first.
func (s *Service) ListUnpaid(ctx context.Context) ([]Bill, error) {
	return s.bills.ListUnpaid(ctx)
}

// ListUnpaidForCustomer returns a customer's open bills.
func (s *Service) ListUnpaidForCustomer(ctx context.Context, customerID string) ([]Bill, error) {
	return s.bills.ListUnpaidForCustomer(ctx, customerID)
}

// ApplyDiscountResult is the outcome of ApplyDiscount. ApprovalPending marks
// the request path: the discount was NOT applied and the bill entered the
// staff approval queue. Callers must render it distinctly from errors.
type ApplyDiscountResult struct {
	Bill            *Bill
	Totals          Totals
	ApprovalPending bool
}

// ApplyDiscount applies the discount code to an unpaid bill. At most one
// discount is active per bill; a second application fails with
// ErrDiscountAlreadyApplied until the first is removed. Discounts marked as
// requiring staff approval move customer actors to the approval queue
// instead of changing totals; staff actors bypass the queue entirely.
func (s *Service) ApplyDiscount(ctx context.Context, billID, code string, actor Actor) (*ApplyDiscountResult, error) {
	b, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrBillPaid
	}
	if b.AppliedDiscount != nil {
		return nil, ErrDiscountAlreadyApplied
	}

	def, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !def.IsActive {
		return nil, discount.ErrInactive
	}

	if def.RequiresStaffApproval && !actor.IsStaff() {
		// Re-requesting while already pending just refreshes the code.
		if b.ApprovalState() == discount.ApprovalNone {
			if _, err := b.ApprovalState().Transition(discount.ApprovalRequested); err != nil {
				return nil, err
			}
		}
		b.PendingDiscountCode = def.Code
		if err := s.bills.Update(ctx, b); err != nil {
			return nil, err
		}
		return &ApplyDiscountResult{Bill: b, Totals: s.Totals(b), ApprovalPending: true}, nil
	}

	amount, err := discount.Evaluate(def, b.Subtotal)
	if err != nil {
		return nil, err
	}

	b.AppliedDiscount = def
	b.DiscountAmount = amount
	b.PendingDiscountCode = ""
	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return &ApplyDiscountResult{Bill: b, Totals: s.Totals(b)}, nil
}

// ResolveDiscountRequest lets a staff actor approve or reject an outstanding
// discount request. Approval behaves exactly like a direct application of
// the pending code; rejection clears the request and leaves the bill
// untouched.
func (s *Service) ResolveDiscountRequest(ctx context.Context, billID string, approve bool, actor Actor) (*Bill, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}

	b, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrBillPaid
	}
	if !b.DiscountRequestPending() {
		return nil, ErrNoPendingRequest
	}

	next := discount.ApprovalRejected
	if approve {
		next = discount.ApprovalApproved
	}
	if _, err := b.ApprovalState().Transition(next); err != nil {
		return nil, err
	}

	if approve {
		def, err := s.discounts.FindByCode(ctx, b.PendingDiscountCode)
		if err != nil {
			return nil, err
		}
		amount, err := discount.Evaluate(def, b.Subtotal)
		if err != nil {
			return nil, err
		}
		b.AppliedDiscount = def
		b.DiscountAmount = amount
	}
	b.PendingDiscountCode = ""

	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RemoveDiscount clears the applied discount and any pending approval
// request in one operation, returning the bill to its pre-discount totals.
func (s *Service) RemoveDiscount(ctx context.Context, billID string) (*Bill, error) {
	b, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrBillPaid
	}

	b.AppliedDiscount = nil
	b.DiscountAmount = money.Zero
	b.PendingDiscountCode = ""

	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ApplyCoins redeems loyalty coins against the bill's pre-tax payable amount.
// Re-applying replaces the actor's previous redemption on the same bill; the
// old coins are returned to the balance before the new count is debited.
func (s *Service) ApplyCoins(ctx context.Context, billID string, coins int, actor Actor) (*Bill, error) {
	if actor.CustomerID == "" {
		return nil, ErrCustomerRequired
	}

	b, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrBillPaid
	}
	if b.CoinsRedeemed > 0 && b.CoinsCustomerID != actor.CustomerID {
		return nil, ErrCoinsAlreadyApplied
	}

	cust, err := s.customers.Get(ctx, actor.CustomerID)
	if err != nil {
		return nil, err
	}

	// Coins already on this bill come back into play when replacing.
	balance := cust.LoyaltyCoins + b.CoinsRedeemed

	red, err := loyalty.ComputeRedemption(coins, balance, b.PayableAfterDiscount())
	if err != nil {
		return nil, err
	}

	delta := red.CoinsApplied - b.CoinsRedeemed
	if delta != 0 {
		if err := s.customers.AdjustCoins(ctx, cust.ID, -delta); err != nil {
			return nil, errors.Wrap(err, "debit coins")
		}
	}

	b.CoinsRedeemed = red.CoinsApplied
	b.CoinDiscount = red.CoinDiscount
	b.CoinsCustomerID = cust.ID

	if err := s.bills.Update(ctx, b); err != nil {
		// Return the debited coins; the bill mutation did not land.
		if delta != 0 {
			_ = s.customers.AdjustCoins(ctx, cust.ID, delta)
		}
		return nil, err
	}
	return b, nil
}

// RemoveCoins returns the redeemed coins to their owner and clears the
// redemption from the bill. Removing from a bill without coins is a no-op.
func (s *Service) RemoveCoins(ctx context.Context, billID string) (*Bill, error) {
	b, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrBillPaid
	}
	if b.CoinsRedeemed == 0 {
		return b, nil
	}

	refund := b.CoinsRedeemed
	owner := b.CoinsCustomerID
	if err := s.customers.AdjustCoins(ctx, owner, refund); err != nil {
		return nil, errors.Wrap(err, "credit coins")
	}

	b.CoinsRedeemed = 0
	b.CoinDiscount = money.Zero
	b.CoinsCustomerID = ""

	if err := s.bills.Update(ctx, b); err != nil {
		_ = s.customers.AdjustCoins(ctx, owner, -refund)
		return nil, err
	}
	return b, nil
}

// MarkPaid settles the bill. Paid bills are immutable; every other mutation
// on this service refuses them.
func (s *Service) MarkPaid(ctx context.Context, billID string) (*Bill, error) {
	b, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrBillPaid
	}

	paidAt := s.now()
	b.IsPaid = true
	b.PaidAt = &paidAt

	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
