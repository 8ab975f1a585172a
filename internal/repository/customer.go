package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varun0122/Restaurant-Management/internal/domain/customer"
)

const (
	getCustomerSQL = `SELECT id, phone, loyalty_coins, last_seen_at FROM customers WHERE id = $1`

	getCustomerByPhoneSQL = `SELECT id, phone, loyalty_coins, last_seen_at FROM customers WHERE phone = $1`

	adjustCoinsSQL = `UPDATE customers SET loyalty_coins = loyalty_coins + $2
		WHERE id = $1 AND loyalty_coins + $2 >= 0`

	customerExistsSQL = `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Get returns a customer by ID.
func (r *CustomerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}
	return &c, nil
}

// GetByPhone returns a customer by phone number.
func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByPhoneSQL, phone)
	if err != nil {
		return nil, fmt.Errorf("getting customer by phone: %w", err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer by phone: %w", err)
	}
	return &c, nil
}

// AdjustCoins atomically applies a signed delta to the coin balance. The
// guard in the WHERE clause keeps the balance from going negative under
// concurrent redemptions.
func (r *CustomerRepository) AdjustCoins(ctx context.Context, id string, delta int) error {
	tag, err := r.pool.Exec(ctx, adjustCoinsSQL, id, delta)
	if err != nil {
		return fmt.Errorf("adjusting coins for customer %q: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, customerExistsSQL, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking customer %q: %w", id, err)
	}
	if !exists {
		return customer.ErrNotFound
	}
	return customer.ErrInsufficientBalance
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Phone, &c.LoyaltyCoins, &c.LastSeenAt)
	return c, err
}
