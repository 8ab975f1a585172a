package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varun0122/Restaurant-Management/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, customer_id, table_number, items, subtotal, status, bill_id, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, NULLIF($7, '')::uuid, $8)`

	getOrderSQL = `SELECT id, COALESCE(customer_id, ''), table_number, items, status, COALESCE(bill_id::text, ''), created_at
		FROM orders WHERE id = $1`

	updateOrderSQL = `UPDATE orders SET status = $2, bill_id = NULLIF($3, '')::uuid WHERE id = $1`

	listActiveOrdersSQL = `SELECT id, COALESCE(customer_id, ''), table_number, items, status, COALESCE(bill_id::text, ''), created_at
		FROM orders WHERE status = ANY($1) ORDER BY created_at, id`

	listOrdersByCustomerSQL = `SELECT id, COALESCE(customer_id, ''), table_number, items, status, COALESCE(bill_id::text, ''), created_at
		FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	listOrdersByBillSQL = `SELECT id, COALESCE(customer_id, ''), table_number, items, status, COALESCE(bill_id::text, ''), created_at
		FROM orders WHERE bill_id = $1 ORDER BY created_at, id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are serialized to a JSONB column; the subtotal is stored alongside
// so bill subtotals aggregate with a plain SUM.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.CustomerID, o.TableNumber, itemsJSON, o.Subtotal(),
		string(o.Status), o.BillID, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// Get returns a single order by ID.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// Update persists status and bill attachment changes. Items are immutable
// once placed and are not rewritten.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	tag, err := r.pool.Exec(ctx, updateOrderSQL, o.ID, string(o.Status), o.BillID)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// ListActive returns orders still on the kitchen's plate, oldest first.
func (r *OrderRepository) ListActive(ctx context.Context) ([]order.Order, error) {
	statuses := make([]string, 0, len(order.ActiveStatuses))
	for _, s := range order.ActiveStatuses {
		statuses = append(statuses, string(s))
	}

	rows, err := r.pool.Query(ctx, listActiveOrdersSQL, statuses)
	if err != nil {
		return nil, fmt.Errorf("listing active orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListByCustomer returns a customer's order history, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %q: %w", customerID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListByBill returns the orders aggregated under one bill.
func (r *OrderRepository) ListByBill(ctx context.Context, billID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByBillSQL, billID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for bill %q: %w", billID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
		status    string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.TableNumber, &itemsJSON, &status, &o.BillID, &o.CreatedAt)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	o.Status = order.Status(status)
	return o, nil
}
