// Package menu holds the dish catalog.
package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrDishNotFound is returned when a dish does not exist.
var ErrDishNotFound = errors.New("dish not found")

// FoodType classifies a dish for dietary filtering.
type FoodType string

const (
	FoodTypeVeg    FoodType = "veg"
	FoodTypeNonVeg FoodType = "non-veg"
)

// Category groups dishes on the menu.
type Category struct {
	ID   int64
	Name string
}

// Dish is a single menu item.
type Dish struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  int64
	Category    string
	FoodType    FoodType
	IsSpecial   bool
	LikeCount   int
}

// Repository defines catalog persistence.
type Repository interface {
	List(ctx context.Context) ([]Dish, error)
	GetByID(ctx context.Context, id int64) (*Dish, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Dish, error)
	ListCategories(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, dish *Dish) error
	Update(ctx context.Context, dish *Dish) error
	Delete(ctx context.Context, id int64) error
}
