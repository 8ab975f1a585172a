// Package inventory tracks kitchen ingredient stock levels.
package inventory

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("ingredient not found")

// Ingredient is a stocked kitchen item.
type Ingredient struct {
	ID       int64
	Name     string
	Quantity decimal.Decimal
	Unit     string
	// ReorderLevel marks the threshold below which stock is low.
	ReorderLevel decimal.Decimal
}

// Low reports whether stock has fallen to or below the reorder level.
func (i Ingredient) Low() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderLevel)
}

// Repository defines ingredient persistence.
type Repository interface {
	List(ctx context.Context) ([]Ingredient, error)
	Get(ctx context.Context, id int64) (*Ingredient, error)
	Create(ctx context.Context, ing *Ingredient) error
	Update(ctx context.Context, ing *Ingredient) error
	Delete(ctx context.Context, id int64) error
}
