package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/inventory"
)

const (
	listIngredientsSQL = `SELECT id, name, quantity, unit, reorder_level FROM ingredients ORDER BY id`

	getIngredientSQL = `SELECT id, name, quantity, unit, reorder_level FROM ingredients WHERE id = $1`

	createIngredientSQL = `INSERT INTO ingredients (name, quantity, unit, reorder_level)
		VALUES ($1, $2, $3, $4) RETURNING id`

	updateIngredientSQL = `UPDATE ingredients SET name = $2, quantity = $3, unit = $4, reorder_level = $5
		WHERE id = $1`

	deleteIngredientSQL = `DELETE FROM ingredients WHERE id = $1`
)

var _ inventory.Repository = (*IngredientRepository)(nil)

// IngredientRepository implements inventory.Repository backed by PostgreSQL.
type IngredientRepository struct {
	pool *pgxpool.Pool
}

// NewIngredientRepository returns an IngredientRepository that uses the given pool.
func NewIngredientRepository(pool *pgxpool.Pool) *IngredientRepository {
	return &IngredientRepository{pool: pool}
}

// List returns all ingredients ordered by ID.
func (r *IngredientRepository) List(ctx context.Context) ([]inventory.Ingredient, error) {
	rows, err := r.pool.Query(ctx, listIngredientsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing ingredients: %w", err)
	}
	return pgx.CollectRows(rows, scanIngredient)
}

// Get returns a single ingredient by ID.
func (r *IngredientRepository) Get(ctx context.Context, id int64) (*inventory.Ingredient, error) {
	rows, err := r.pool.Query(ctx, getIngredientSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting ingredient %d: %w", id, err)
	}

	ing, err := pgx.CollectExactlyOneRow(rows, scanIngredient)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrNotFound
		}
		return nil, fmt.Errorf("getting ingredient %d: %w", id, err)
	}
	return &ing, nil
}

// Create inserts a new ingredient and fills in its assigned ID.
func (r *IngredientRepository) Create(ctx context.Context, ing *inventory.Ingredient) error {
	err := r.pool.QueryRow(ctx, createIngredientSQL,
		ing.Name, ing.Quantity, ing.Unit, ing.ReorderLevel,
	).Scan(&ing.ID)
	if err != nil {
		return fmt.Errorf("creating ingredient %q: %w", ing.Name, err)
	}
	return nil
}

// Update rewrites an existing ingredient.
func (r *IngredientRepository) Update(ctx context.Context, ing *inventory.Ingredient) error {
	tag, err := r.pool.Exec(ctx, updateIngredientSQL,
		ing.ID, ing.Name, ing.Quantity, ing.Unit, ing.ReorderLevel,
	)
	if err != nil {
		return fmt.Errorf("updating ingredient %d: %w", ing.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

// Delete removes an ingredient.
func (r *IngredientRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteIngredientSQL, id)
	if err != nil {
		return fmt.Errorf("deleting ingredient %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func scanIngredient(row pgx.CollectableRow) (inventory.Ingredient, error) {
	var (
		ing      inventory.Ingredient
		quantity decimal.Decimal
		reorder  decimal.Decimal
	)
	err := row.Scan(&ing.ID, &ing.Name, &quantity, &ing.Unit, &reorder)
	ing.Quantity = quantity
	ing.ReorderLevel = reorder
	return ing, err
}
