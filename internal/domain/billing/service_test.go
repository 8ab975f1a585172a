package billing

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varun0122/Restaurant-Management/internal/domain/customer"
	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
	"github.com/varun0122/Restaurant-Management/internal/domain/loyalty"
)

// --- Mock implementations ---

type mockBillRepo struct {
	bills     map[string]*Bill
	updateErr error
	updates   int
}

func newBillRepo(bills ...*Bill) *mockBillRepo {
	m := &mockBillRepo{bills: make(map[string]*Bill)}
	for _, b := range bills {
		m.bills[b.ID] = b
	}
	return m
}

func (m *mockBillRepo) Get(_ context.Context, id string) (*Bill, error) {
	b, ok := m.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBillRepo) GetOrCreateOpenForTable(_ context.Context, table int) (*Bill, error) {
	for _, b := range m.bills {
		if b.TableNumber == table && !b.IsPaid {
			cp := *b
			return &cp, nil
		}
	}
	b := &Bill{ID: "new", TableNumber: table}
	m.bills[b.ID] = b
	cp := *b
	return &cp, nil
}

func (m *mockBillRepo) ListUnpaid(_ context.Context) ([]Bill, error) { return nil, nil }

func (m *mockBillRepo) ListUnpaidForCustomer(_ context.Context, _ string) ([]Bill, error) {
	return nil, nil
}

func (m *mockBillRepo) Update(_ context.Context, b *Bill) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.bills[b.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != b.Version {
		return ErrStaleBill
	}
	b.Version++
	cp := *b
	m.bills[b.ID] = &cp
	m.updates++
	return nil
}

type mockDiscountRepo struct {
	defs map[string]*discount.Definition
}

func newDiscountRepo(defs ...*discount.Definition) *mockDiscountRepo {
	m := &mockDiscountRepo{defs: make(map[string]*discount.Definition)}
	for _, d := range defs {
		m.defs[strings.ToUpper(d.Code)] = d
	}
	return m
}

func (m *mockDiscountRepo) FindByCode(_ context.Context, code string) (*discount.Definition, error) {
	def, ok := m.defs[strings.ToUpper(code)]
	if !ok {
		return nil, discount.ErrNotFound
	}
	return def, nil
}

func (m *mockDiscountRepo) List(_ context.Context) ([]discount.Definition, error) { return nil, nil }
func (m *mockDiscountRepo) ListCodes(_ context.Context) ([]string, error)         { return nil, nil }
func (m *mockDiscountRepo) Create(_ context.Context, _ *discount.Definition) error {
	return nil
}
func (m *mockDiscountRepo) Update(_ context.Context, _ *discount.Definition) error {
	return nil
}
func (m *mockDiscountRepo) Delete(_ context.Context, _ int64) error { return nil }

type mockCustomerRepo struct {
	customers map[string]*customer.Customer
}

func newCustomerRepo(customers ...*customer.Customer) *mockCustomerRepo {
	m := &mockCustomerRepo{customers: make(map[string]*customer.Customer)}
	for _, c := range customers {
		m.customers[c.ID] = c
	}
	return m
}

func (m *mockCustomerRepo) Get(_ context.Context, id string) (*customer.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCustomerRepo) GetByPhone(_ context.Context, _ string) (*customer.Customer, error) {
	return nil, customer.ErrNotFound
}

func (m *mockCustomerRepo) AdjustCoins(_ context.Context, id string, delta int) error {
	c, ok := m.customers[id]
	if !ok {
		return customer.ErrNotFound
	}
	if c.LoyaltyCoins+delta < 0 {
		return customer.ErrInsufficientBalance
	}
	c.LoyaltyCoins += delta
	return nil
}

// --- Helpers ---

var (
	staffActor = Actor{Role: RoleStaff}
	adminActor = Actor{Role: RoleAdmin}
)

func customerActor(id string) Actor {
	return Actor{Role: RoleCustomer, CustomerID: id}
}

func openBill(id string, subtotal string) *Bill {
	return &Bill{ID: id, TableNumber: 4, Subtotal: d(subtotal)}
}

func fixedDiscount(code, value string) *discount.Definition {
	return &discount.Definition{
		Code:     code,
		Kind:     discount.KindFixed,
		Value:    d(value),
		IsActive: true,
	}
}

// --- Tests ---

func TestApplyDiscount_Staff(t *testing.T) {
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(fixedDiscount("FLAT50", "50")), newCustomerRepo(), decimal.Zero)

	res, err := svc.ApplyDiscount(context.Background(), "b1", "FLAT50", staffActor)
	require.NoError(t, err)
	assert.False(t, res.ApprovalPending)
	assert.True(t, res.Bill.DiscountAmount.Equal(d("50")))
	assert.True(t, res.Totals.FinalAmount.Equal(d("472.50")))
}

func TestApplyDiscount_CaseInsensitiveCode(t *testing.T) {
	bills := newBillRepo(openBill("b1", "200.00"))
	svc := NewService(bills, newDiscountRepo(fixedDiscount("FLAT50", "50")), newCustomerRepo(), decimal.Zero)

	res, err := svc.ApplyDiscount(context.Background(), "b1", "flat50", staffActor)
	require.NoError(t, err)
	assert.True(t, res.Bill.DiscountAmount.Equal(d("50")))
}

func TestApplyDiscount_UnknownCode(t *testing.T) {
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(), newCustomerRepo(), decimal.Zero)

	_, err := svc.ApplyDiscount(context.Background(), "b1", "NOPE", staffActor)
	require.ErrorIs(t, err, discount.ErrNotFound)
}

func TestApplyDiscount_Inactive(t *testing.T) {
	def := fixedDiscount("OLD", "50")
	def.IsActive = false
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(def), newCustomerRepo(), decimal.Zero)

	_, err := svc.ApplyDiscount(context.Background(), "b1", "OLD", staffActor)
	require.ErrorIs(t, err, discount.ErrInactive)
}

func TestApplyDiscount_MutualExclusivity(t *testing.T) {
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(
		fixedDiscount("FLAT50", "50"),
		fixedDiscount("FLAT20", "20"),
	), newCustomerRepo(), decimal.Zero)

	_, err := svc.ApplyDiscount(context.Background(), "b1", "FLAT50", staffActor)
	require.NoError(t, err)

	_, err = svc.ApplyDiscount(context.Background(), "b1", "FLAT20", staffActor)
	require.ErrorIs(t, err, ErrDiscountAlreadyApplied)

	// After removal the second code applies cleanly.
	_, err = svc.RemoveDiscount(context.Background(), "b1")
	require.NoError(t, err)

	res, err := svc.ApplyDiscount(context.Background(), "b1", "FLAT20", staffActor)
	require.NoError(t, err)
	assert.True(t, res.Bill.DiscountAmount.Equal(d("20")))
}

// Round-trip law: removing a discount returns the final amount to exactly its
// pre-discount value.
func TestApplyRemoveDiscount_RoundTrip(t *testing.T) {
	bills := newBillRepo(openBill("b1", "333.33"))
	svc := NewService(bills, newDiscountRepo(fixedDiscount("FLAT50", "50")), newCustomerRepo(), decimal.Zero)

	before, _, err := svc.Get(context.Background(), "b1")
	require.NoError(t, err)
	beforeFinal := svc.Totals(before).FinalAmount

	_, err = svc.ApplyDiscount(context.Background(), "b1", "FLAT50", staffActor)
	require.NoError(t, err)

	after, err := svc.RemoveDiscount(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, svc.Totals(after).FinalAmount.Equal(beforeFinal))
}

func TestApplyDiscount_CustomerNeedsApproval(t *testing.T) {
	def := fixedDiscount("STUDENT15", "15")
	def.RequiresStaffApproval = true
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(def), newCustomerRepo(), decimal.Zero)

	res, err := svc.ApplyDiscount(context.Background(), "b1", "STUDENT15", customerActor("c1"))
	require.NoError(t, err)
	assert.True(t, res.ApprovalPending)
	assert.True(t, res.Bill.DiscountRequestPending())
	assert.Nil(t, res.Bill.AppliedDiscount)
	// The pending request does not affect totals.
	assert.True(t, res.Totals.FinalAmount.Equal(d("525.00")))
}

func TestApplyDiscount_StaffBypassesApproval(t *testing.T) {
	def := fixedDiscount("STUDENT15", "15")
	def.RequiresStaffApproval = true
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(def), newCustomerRepo(), decimal.Zero)

	res, err := svc.ApplyDiscount(context.Background(), "b1", "STUDENT15", adminActor)
	require.NoError(t, err)
	assert.False(t, res.ApprovalPending)
	assert.True(t, res.Bill.DiscountAmount.Equal(d("15")))
}

func TestResolveDiscountRequest_Approve(t *testing.T) {
	def := fixedDiscount("STUDENT15", "15")
	def.RequiresStaffApproval = true
	b := openBill("b1", "500.00")
	b.PendingDiscountCode = "STUDENT15"
	svc := NewService(newBillRepo(b), newDiscountRepo(def), newCustomerRepo(), decimal.Zero)

	got, err := svc.ResolveDiscountRequest(context.Background(), "b1", true, staffActor)
	require.NoError(t, err)
	assert.False(t, got.DiscountRequestPending())
	require.NotNil(t, got.AppliedDiscount)
	assert.True(t, got.DiscountAmount.Equal(d("15")))
}

func TestResolveDiscountRequest_Reject(t *testing.T) {
	b := openBill("b1", "500.00")
	b.PendingDiscountCode = "STUDENT15"
	svc := NewService(newBillRepo(b), newDiscountRepo(), newCustomerRepo(), decimal.Zero)

	got, err := svc.ResolveDiscountRequest(context.Background(), "b1", false, staffActor)
	require.NoError(t, err)
	assert.False(t, got.DiscountRequestPending())
	assert.Nil(t, got.AppliedDiscount)
	assert.True(t, got.DiscountAmount.IsZero())
}

func TestResolveDiscountRequest_CustomerForbidden(t *testing.T) {
	b := openBill("b1", "500.00")
	b.PendingDiscountCode = "STUDENT15"
	svc := NewService(newBillRepo(b), newDiscountRepo(), newCustomerRepo(), decimal.Zero)

	_, err := svc.ResolveDiscountRequest(context.Background(), "b1", true, customerActor("c1"))
	require.ErrorIs(t, err, ErrStaffOnly)
}

func TestResolveDiscountRequest_NoPending(t *testing.T) {
	svc := NewService(newBillRepo(openBill("b1", "500.00")), newDiscountRepo(), newCustomerRepo(), decimal.Zero)

	_, err := svc.ResolveDiscountRequest(context.Background(), "b1", true, staffActor)
	require.ErrorIs(t, err, ErrNoPendingRequest)
}

func TestApplyCoins(t *testing.T) {
	custs := newCustomerRepo(&customer.Customer{ID: "c1", LoyaltyCoins: 100})
	svc := NewService(newBillRepo(openBill("b1", "500.00")), newDiscountRepo(), custs, decimal.Zero)

	got, err := svc.ApplyCoins(context.Background(), "b1", 50, customerActor("c1"))
	require.NoError(t, err)
	assert.Equal(t, 50, got.CoinsRedeemed)
	assert.True(t, got.CoinDiscount.Equal(d("5.00")))
	assert.Equal(t, 50, custs.customers["c1"].LoyaltyCoins)
}

func TestApplyCoins_InsufficientBalance(t *testing.T) {
	custs := newCustomerRepo(&customer.Customer{ID: "c1", LoyaltyCoins: 10})
	svc := NewService(newBillRepo(openBill("b1", "500.00")), newDiscountRepo(), custs, decimal.Zero)

	_, err := svc.ApplyCoins(context.Background(), "b1", 11, customerActor("c1"))
	require.ErrorIs(t, err, loyalty.ErrInsufficientCoins)
	// No partial mutation.
	assert.Equal(t, 10, custs.customers["c1"].LoyaltyCoins)
}

func TestApplyCoins_InvalidCount(t *testing.T) {
	custs := newCustomerRepo(&customer.Customer{ID: "c1", LoyaltyCoins: 10})
	svc := NewService(newBillRepo(openBill("b1", "500.00")), newDiscountRepo(), custs, decimal.Zero)

	_, err := svc.ApplyCoins(context.Background(), "b1", 0, customerActor("c1"))
	require.ErrorIs(t, err, loyalty.ErrInvalidCoinCount)
}

func TestApplyCoins_CappedAtPayable(t *testing.T) {
	// Bill worth 1.50 after discount; 25 coins requested, only 15 consumed.
	b := openBill("b1", "101.50")
	b.DiscountAmount = d("100.00")
	custs := newCustomerRepo(&customer.Customer{ID: "c1", LoyaltyCoins: 25})
	svc := NewService(newBillRepo(b), newDiscountRepo(), custs, decimal.Zero)

	got, err := svc.ApplyCoins(context.Background(), "b1", 25, customerActor("c1"))
	require.NoError(t, err)
	assert.Equal(t, 15, got.CoinsRedeemed)
	assert.True(t, got.CoinDiscount.Equal(d("1.50")))
	assert.Equal(t, 10, custs.customers["c1"].LoyaltyCoins)
}

func TestApplyCoins_ReplaceReturnsPreviousCoins(t *testing.T) {
	custs := newCustomerRepo(&customer.Customer{ID: "c1", LoyaltyCoins: 100})
	svc := NewService(newBillRepo(openBill("b1", "500.00")), newDiscountRepo(), custs, decimal.Zero)

	_, err := svc.ApplyCoins(context.Background(), "b1", 80, customerActor("c1"))
	require.NoError(t, err)
	assert.Equal(t, 20, custs.customers["c1"].LoyaltyCoins)

	got, err := svc.ApplyCoins(context.Background(), "b1", 30, customerActor("c1"))
	require.NoError(t, err)
	assert.Equal(t, 30, got.CoinsRedeemed)
	assert.Equal(t, 70, custs.customers["c1"].LoyaltyCoins)
}

func TestApplyCoins_OtherCustomersCoinsPresent(t *testing.T) {
	b := openBill("b1", "500.00")
	b.CoinsRedeemed = 10
	b.CoinDiscount = d("1.00")
	b.CoinsCustomerID = "c2"
	custs := newCustomerRepo(&customer.Customer{ID: "c1", LoyaltyCoins: 100})
	svc := NewService(newBillRepo(b), newDiscountRepo(), custs, decimal.Zero)

	_, err := svc.ApplyCoins(context.Background(), "b1", 10, customerActor("c1"))
	require.ErrorIs(t, err, ErrCoinsAlreadyApplied)
}

func TestRemoveCoins_RoundTrip(t *testing.T) {
	custs := newCustomerRepo(&customer.Customer{ID: "c1", LoyaltyCoins: 100})
	svc := NewService(newBillRepo(openBill("b1", "500.00")), newDiscountRepo(), custs, decimal.Zero)

	before, _, err := svc.Get(context.Background(), "b1")
	require.NoError(t, err)
	beforeFinal := svc.Totals(before).FinalAmount

	_, err = svc.ApplyCoins(context.Background(), "b1", 50, customerActor("c1"))
	require.NoError(t, err)

	after, err := svc.RemoveCoins(context.Background(), "b1")
	require.NoError(t, err)
	assert.Zero(t, after.CoinsRedeemed)
	assert.True(t, svc.Totals(after).FinalAmount.Equal(beforeFinal))
	assert.Equal(t, 100, custs.customers["c1"].LoyaltyCoins)
}

func TestRemoveCoins_NoopWithoutCoins(t *testing.T) {
	svc := NewService(newBillRepo(openBill("b1", "500.00")), newDiscountRepo(), newCustomerRepo(), decimal.Zero)

	got, err := svc.RemoveCoins(context.Background(), "b1")
	require.NoError(t, err)
	assert.Zero(t, got.CoinsRedeemed)
}

func TestMarkPaid(t *testing.T) {
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(fixedDiscount("FLAT50", "50")), newCustomerRepo(), decimal.Zero)

	got, err := svc.MarkPaid(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	require.NotNil(t, got.PaidAt)

	// Paid bills are immutable.
	_, err = svc.MarkPaid(context.Background(), "b1")
	require.ErrorIs(t, err, ErrBillPaid)

	_, err = svc.ApplyDiscount(context.Background(), "b1", "FLAT50", staffActor)
	require.ErrorIs(t, err, ErrBillPaid)

	_, err = svc.RemoveDiscount(context.Background(), "b1")
	require.ErrorIs(t, err, ErrBillPaid)

	_, err = svc.ApplyCoins(context.Background(), "b1", 5, customerActor("c1"))
	require.ErrorIs(t, err, ErrBillPaid)
}

func TestApplyDiscount_StaleBill(t *testing.T) {
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(fixedDiscount("FLAT50", "50")), newCustomerRepo(), decimal.Zero)

	// Another writer bumps the version between our read and write.
	bills.updateErr = ErrStaleBill

	_, err := svc.ApplyDiscount(context.Background(), "b1", "FLAT50", staffActor)
	require.ErrorIs(t, err, ErrStaleBill)
}

func TestApplyCoins_StaleBillRefundsCoins(t *testing.T) {
	custs := newCustomerRepo(&customer.Customer{ID: "c1", LoyaltyCoins: 100})
	bills := newBillRepo(openBill("b1", "500.00"))
	svc := NewService(bills, newDiscountRepo(), custs, decimal.Zero)

	bills.updateErr = ErrStaleBill

	_, err := svc.ApplyCoins(context.Background(), "b1", 50, customerActor("c1"))
	require.ErrorIs(t, err, ErrStaleBill)
	assert.Equal(t, 100, custs.customers["c1"].LoyaltyCoins)
}
