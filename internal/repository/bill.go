package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/billing"
	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
)

// billColumns selects a bill together with its server-computed subtotal and
// the joined discount definition, if any.
const billColumns = `b.id, b.table_number,
	COALESCE((SELECT SUM(o.subtotal) FROM orders o WHERE o.bill_id = b.id), 0),
	b.discount_id, d.code, d.kind, d.value, d.is_active, d.requires_staff_approval, d.minimum_bill_amount,
	b.discount_amount, COALESCE(b.pending_discount_code, ''),
	b.coins_redeemed, b.coin_discount, COALESCE(b.coins_customer_id, ''),
	b.is_paid, b.created_at, b.paid_at, b.version`

const (
	getBillSQL = `SELECT ` + billColumns + `
		FROM bills b LEFT JOIN discounts d ON d.id = b.discount_id WHERE b.id = $1`

	getOpenBillForTableSQL = `SELECT ` + billColumns + `
		FROM bills b LEFT JOIN discounts d ON d.id = b.discount_id
		WHERE b.table_number = $1 AND NOT b.is_paid`

	createBillSQL = `INSERT INTO bills (id, table_number)
		VALUES ($1, $2) ON CONFLICT (table_number) WHERE NOT is_paid DO NOTHING`

	listUnpaidBillsSQL = `SELECT ` + billColumns + `
		FROM bills b LEFT JOIN discounts d ON d.id = b.discount_id
		WHERE NOT b.is_paid ORDER BY b.created_at, b.id`

	listUnpaidBillsForCustomerSQL = `SELECT ` + billColumns + `
		FROM bills b LEFT JOIN discounts d ON d.id = b.discount_id
		WHERE NOT b.is_paid AND EXISTS (
			SELECT 1 FROM orders o WHERE o.bill_id = b.id AND o.customer_id = $1
		) ORDER BY b.created_at, b.id`

	updateBillSQL = `UPDATE bills SET
		discount_id = $2, discount_amount = $3, pending_discount_code = NULLIF($4, ''),
		coins_redeemed = $5, coin_discount = $6, coins_customer_id = NULLIF($7, ''),
		is_paid = $8, paid_at = $9, version = version + 1
		WHERE id = $1 AND version = $10`

	billExistsSQL = `SELECT EXISTS (SELECT 1 FROM bills WHERE id = $1)`
)

var _ billing.Repository = (*BillRepository)(nil)

// BillRepository implements billing.Repository backed by PostgreSQL. A
// partial unique index on (table_number) WHERE NOT is_paid enforces at most
// one open bill per table; Update compare-and-swaps on the version column.
type BillRepository struct {
	pool *pgxpool.Pool
}

// NewBillRepository returns a BillRepository that uses the given pool.
func NewBillRepository(pool *pgxpool.Pool) *BillRepository {
	return &BillRepository{pool: pool}
}

// Get returns a bill by ID with its subtotal computed from attached orders.
func (r *BillRepository) Get(ctx context.Context, id string) (*billing.Bill, error) {
	rows, err := r.pool.Query(ctx, getBillSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting bill %q: %w", id, err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBill)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, billing.ErrNotFound
		}
		return nil, fmt.Errorf("getting bill %q: %w", id, err)
	}
	return &b, nil
}

// GetOrCreateOpenForTable returns the table's open bill, creating one if the
// table has none. Concurrent callers converge on the same bill: the insert
// is a no-op when another writer won the race.
func (r *BillRepository) GetOrCreateOpenForTable(ctx context.Context, tableNumber int) (*billing.Bill, error) {
	for attempt := 0; attempt < 2; attempt++ {
		rows, err := r.pool.Query(ctx, getOpenBillForTableSQL, tableNumber)
		if err != nil {
			return nil, fmt.Errorf("getting open bill for table %d: %w", tableNumber, err)
		}
		b, err := pgx.CollectExactlyOneRow(rows, scanBill)
		if err == nil {
			return &b, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("getting open bill for table %d: %w", tableNumber, err)
		}

		if _, err := r.pool.Exec(ctx, createBillSQL, uuid.NewString(), tableNumber); err != nil {
			return nil, fmt.Errorf("creating bill for table %d: %w", tableNumber, err)
		}
	}
	return nil, fmt.Errorf("getting open bill for table %d: %w", tableNumber, billing.ErrNotFound)
}

// ListUnpaid returns all open bills, oldest first.
func (r *BillRepository) ListUnpaid(ctx context.Context) ([]billing.Bill, error) {
	rows, err := r.pool.Query(ctx, listUnpaidBillsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing unpaid bills: %w", err)
	}
	return pgx.CollectRows(rows, scanBill)
}

// ListUnpaidForCustomer returns open bills holding at least one of the
// customer's orders.
func (r *BillRepository) ListUnpaidForCustomer(ctx context.Context, customerID string) ([]billing.Bill, error) {
	rows, err := r.pool.Query(ctx, listUnpaidBillsForCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing unpaid bills for customer %q: %w", customerID, err)
	}
	return pgx.CollectRows(rows, scanBill)
}

// Update persists the bill's mutable state, compare-and-swapping on the
// version. Returns billing.ErrStaleBill when another writer got there first.
func (r *BillRepository) Update(ctx context.Context, b *billing.Bill) error {
	var discountID *int64
	if b.AppliedDiscount != nil {
		discountID = &b.AppliedDiscount.ID
	}

	tag, err := r.pool.Exec(ctx, updateBillSQL,
		b.ID, discountID, b.DiscountAmount, b.PendingDiscountCode,
		b.CoinsRedeemed, b.CoinDiscount, b.CoinsCustomerID,
		b.IsPaid, b.PaidAt, b.Version,
	)
	if err != nil {
		return fmt.Errorf("updating bill %q: %w", b.ID, err)
	}
	if tag.RowsAffected() == 1 {
		b.Version++
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, billExistsSQL, b.ID).Scan(&exists); err != nil {
		return fmt.Errorf("checking bill %q: %w", b.ID, err)
	}
	if !exists {
		return billing.ErrNotFound
	}
	return billing.ErrStaleBill
}

func scanBill(row pgx.CollectableRow) (billing.Bill, error) {
	var (
		b          billing.Bill
		subtotal   decimal.Decimal
		discountID *int64

		code         *string
		kind         *string
		value        *decimal.Decimal
		isActive     *bool
		reqApproval  *bool
		minimumSpend *decimal.Decimal
	)
	err := row.Scan(
		&b.ID, &b.TableNumber, &subtotal,
		&discountID, &code, &kind, &value, &isActive, &reqApproval, &minimumSpend,
		&b.DiscountAmount, &b.PendingDiscountCode,
		&b.CoinsRedeemed, &b.CoinDiscount, &b.CoinsCustomerID,
		&b.IsPaid, &b.CreatedAt, &b.PaidAt, &b.Version,
	)
	if err != nil {
		return b, err
	}

	b.Subtotal = subtotal
	if discountID != nil {
		b.AppliedDiscount = &discount.Definition{
			ID:                    *discountID,
			Code:                  *code,
			Kind:                  discount.Kind(*kind),
			Value:                 *value,
			IsActive:              *isActive,
			RequiresStaffApproval: *reqApproval,
			MinimumBillAmount:     *minimumSpend,
		}
	}
	return b, nil
}
