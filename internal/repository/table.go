package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varun0122/Restaurant-Management/internal/domain/billing"
)

const listTablesSQL = `SELECT t.number, COALESCE(b.id::text, '')
	FROM tables t LEFT JOIN bills b ON b.table_number = t.number AND NOT b.is_paid
	ORDER BY t.number`

var _ billing.TableDirectory = (*TableRepository)(nil)

// TableRepository lists dining tables backed by PostgreSQL.
type TableRepository struct {
	pool *pgxpool.Pool
}

// NewTableRepository returns a TableRepository that uses the given pool.
func NewTableRepository(pool *pgxpool.Pool) *TableRepository {
	return &TableRepository{pool: pool}
}

// ListTables returns every table with its open bill, if any.
func (r *TableRepository) ListTables(ctx context.Context) ([]billing.Table, error) {
	rows, err := r.pool.Query(ctx, listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (billing.Table, error) {
		var t billing.Table
		err := row.Scan(&t.Number, &t.OpenBillID)
		return t, err
	})
}
