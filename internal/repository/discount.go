package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
)

const (
	getDiscountByCodeSQL = `SELECT id, code, kind, value, is_active, requires_staff_approval, minimum_bill_amount
		FROM discounts WHERE UPPER(code) = UPPER($1)`

	listDiscountsSQL = `SELECT id, code, kind, value, is_active, requires_staff_approval, minimum_bill_amount
		FROM discounts ORDER BY id`

	listDiscountCodesSQL = `SELECT code FROM discounts`

	createDiscountSQL = `INSERT INTO discounts (code, kind, value, is_active, requires_staff_approval, minimum_bill_amount)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	updateDiscountSQL = `UPDATE discounts SET code = $2, kind = $3, value = $4,
		is_active = $5, requires_staff_approval = $6, minimum_bill_amount = $7 WHERE id = $1`

	deleteDiscountSQL = `DELETE FROM discounts WHERE id = $1`
)

var _ discount.Repository = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Repository backed by PostgreSQL.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountRepository returns a DiscountRepository that uses the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// FindByCode looks up a discount definition by code (case-insensitive).
// Returns discount.ErrNotFound when no such code exists; inactive
// definitions are returned as-is so the evaluator can report them.
func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Definition, error) {
	rows, err := r.pool.Query(ctx, getDiscountByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding discount by code %q: %w", code, err)
	}

	def, err := pgx.CollectExactlyOneRow(rows, scanDiscount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrNotFound
		}
		return nil, fmt.Errorf("finding discount by code %q: %w", code, err)
	}
	return &def, nil
}

// List returns all discount definitions ordered by ID.
func (r *DiscountRepository) List(ctx context.Context) ([]discount.Definition, error) {
	rows, err := r.pool.Query(ctx, listDiscountsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing discounts: %w", err)
	}
	return pgx.CollectRows(rows, scanDiscount)
}

// ListCodes returns every known discount code, active or not.
func (r *DiscountRepository) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listDiscountCodesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing discount codes: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var code string
		err := row.Scan(&code)
		return code, err
	})
}

// Create inserts a new discount definition and fills in its assigned ID.
func (r *DiscountRepository) Create(ctx context.Context, def *discount.Definition) error {
	err := r.pool.QueryRow(ctx, createDiscountSQL,
		def.Code, string(def.Kind), def.Value, def.IsActive,
		def.RequiresStaffApproval, def.MinimumBillAmount,
	).Scan(&def.ID)
	if err != nil {
		return fmt.Errorf("creating discount %q: %w", def.Code, err)
	}
	return nil
}

// Update rewrites an existing discount definition.
func (r *DiscountRepository) Update(ctx context.Context, def *discount.Definition) error {
	tag, err := r.pool.Exec(ctx, updateDiscountSQL,
		def.ID, def.Code, string(def.Kind), def.Value, def.IsActive,
		def.RequiresStaffApproval, def.MinimumBillAmount,
	)
	if err != nil {
		return fmt.Errorf("updating discount %d: %w", def.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return discount.ErrNotFound
	}
	return nil
}

// Delete removes a discount definition.
func (r *DiscountRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteDiscountSQL, id)
	if err != nil {
		return fmt.Errorf("deleting discount %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return discount.ErrNotFound
	}
	return nil
}

func scanDiscount(row pgx.CollectableRow) (discount.Definition, error) {
	var (
		def   discount.Definition
		kind  string
		value decimal.Decimal
		min   decimal.Decimal
	)
	err := row.Scan(
		&def.ID, &def.Code, &kind, &value, &def.IsActive,
		&def.RequiresStaffApproval, &min,
	)
	def.Kind = discount.Kind(kind)
	def.Value = value
	def.MinimumBillAmount = min
	return def, err
}
