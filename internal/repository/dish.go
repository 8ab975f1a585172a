package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/menu"
)

const (
	listDishesSQL = `SELECT d.id, d.name, d.description, d.price, d.category_id, c.name,
		d.food_type, d.is_special, d.like_count
		FROM dishes d JOIN categories c ON c.id = d.category_id ORDER BY d.id`

	getDishByIDSQL = `SELECT d.id, d.name, d.description, d.price, d.category_id, c.name,
		d.food_type, d.is_special, d.like_count
		FROM dishes d JOIN categories c ON c.id = d.category_id WHERE d.id = $1`

	getDishesByIDsSQL = `SELECT d.id, d.name, d.description, d.price, d.category_id, c.name,
		d.food_type, d.is_special, d.like_count
		FROM dishes d JOIN categories c ON c.id = d.category_id WHERE d.id = ANY($1)`

	listCategoriesSQL = `SELECT id, name FROM categories ORDER BY id`

	createDishSQL = `INSERT INTO dishes (name, description, price, category_id, food_type, is_special)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	updateDishSQL = `UPDATE dishes SET name = $2, description = $3, price = $4,
		category_id = $5, food_type = $6, is_special = $7 WHERE id = $1`

	deleteDishSQL = `DELETE FROM dishes WHERE id = $1`
)

var _ menu.Repository = (*DishRepository)(nil)

// DishRepository implements menu.Repository backed by PostgreSQL.
type DishRepository struct {
	pool *pgxpool.Pool
}

// NewDishRepository returns a DishRepository that uses the given pool.
func NewDishRepository(pool *pgxpool.Pool) *DishRepository {
	return &DishRepository{pool: pool}
}

// List returns the full menu ordered by dish ID.
func (r *DishRepository) List(ctx context.Context) ([]menu.Dish, error) {
	rows, err := r.pool.Query(ctx, listDishesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing dishes: %w", err)
	}
	return pgx.CollectRows(rows, scanDish)
}

// GetByID returns a single dish by its identifier.
func (r *DishRepository) GetByID(ctx context.Context, id int64) (*menu.Dish, error) {
	rows, err := r.pool.Query(ctx, getDishByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting dish %d: %w", id, err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanDish)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrDishNotFound
		}
		return nil, fmt.Errorf("getting dish %d: %w", id, err)
	}
	return &d, nil
}

// GetByIDs returns dishes matching any of the given IDs.
func (r *DishRepository) GetByIDs(ctx context.Context, ids []int64) ([]menu.Dish, error) {
	rows, err := r.pool.Query(ctx, getDishesByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting dishes by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanDish)
}

// ListCategories returns all menu categories ordered by ID.
func (r *DishRepository) ListCategories(ctx context.Context) ([]menu.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (menu.Category, error) {
		var c menu.Category
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}

// Create inserts a new dish and fills in its assigned ID.
func (r *DishRepository) Create(ctx context.Context, d *menu.Dish) error {
	err := r.pool.QueryRow(ctx, createDishSQL,
		d.Name, d.Description, d.Price, d.CategoryID, string(d.FoodType), d.IsSpecial,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("creating dish %q: %w", d.Name, err)
	}
	return nil
}

// Update rewrites an existing dish.
func (r *DishRepository) Update(ctx context.Context, d *menu.Dish) error {
	tag, err := r.pool.Exec(ctx, updateDishSQL,
		d.ID, d.Name, d.Description, d.Price, d.CategoryID, string(d.FoodType), d.IsSpecial,
	)
	if err != nil {
		return fmt.Errorf("updating dish %d: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrDishNotFound
	}
	return nil
}

// Delete removes a dish from the menu.
func (r *DishRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteDishSQL, id)
	if err != nil {
		return fmt.Errorf("deleting dish %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrDishNotFound
	}
	return nil
}

func scanDish(row pgx.CollectableRow) (menu.Dish, error) {
	var (
		d        menu.Dish
		price    decimal.Decimal
		foodType string
	)
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &price, &d.CategoryID, &d.Category,
		&foodType, &d.IsSpecial, &d.LikeCount,
	)
	d.Price = price
	d.FoodType = menu.FoodType(foodType)
	return d, err
}
