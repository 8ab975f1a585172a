package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"

	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
)

const (
	discountFilterCapacity = 10_000
	discountFilterFPR      = 0.001
)

var _ discount.Repository = (*FilteredDiscountRepository)(nil)

// FilteredDiscountRepository wraps a discount.Repository with a bloom filter
// over known codes so that lookups of codes that certainly do not exist
// (mistyped promotions at the POS are the common case) skip the database.
// The filter can over-admit but never rejects a known code; mutations and a
// periodic refresh rebuild it from the source of truth.
type FilteredDiscountRepository struct {
	discount.Repository

	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewFilteredDiscountRepository builds the wrapper and seeds the filter from
// the current code set.
func NewFilteredDiscountRepository(ctx context.Context, inner discount.Repository) (*FilteredDiscountRepository, error) {
	r := &FilteredDiscountRepository{Repository: inner}
	if err := r.Rebuild(ctx); err != nil {
		return nil, errors.Wrap(err, "seed discount filter")
	}
	return r, nil
}

// Rebuild reloads the code set and swaps in a fresh filter.
func (r *FilteredDiscountRepository) Rebuild(ctx context.Context) error {
	codes, err := r.Repository.ListCodes(ctx)
	if err != nil {
		return errors.Wrap(err, "list discount codes")
	}

	capacity := uint(len(codes) * 2)
	if capacity < discountFilterCapacity {
		capacity = discountFilterCapacity
	}
	filter := bloom.NewWithEstimates(capacity, discountFilterFPR)
	for _, code := range codes {
		filter.AddString(strings.ToUpper(code))
	}

	r.mu.Lock()
	r.filter = filter
	r.mu.Unlock()
	return nil
}

// RefreshEvery rebuilds the filter on the given interval until ctx is
// cancelled. Admin edits from other instances converge within one interval.
func (r *FilteredDiscountRepository) RefreshEvery(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Rebuild(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}

// FindByCode short-circuits to discount.ErrNotFound when the filter rules
// the code out, and otherwise defers to the wrapped repository.
func (r *FilteredDiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Definition, error) {
	r.mu.RLock()
	known := r.filter.TestString(strings.ToUpper(code))
	r.mu.RUnlock()
	if !known {
		return nil, discount.ErrNotFound
	}
	return r.Repository.FindByCode(ctx, code)
}

// Create inserts the definition and admits its code into the filter.
func (r *FilteredDiscountRepository) Create(ctx context.Context, def *discount.Definition) error {
	if err := r.Repository.Create(ctx, def); err != nil {
		return err
	}
	r.mu.Lock()
	r.filter.AddString(strings.ToUpper(def.Code))
	r.mu.Unlock()
	return nil
}

// Update rewrites the definition and rebuilds the filter: the code may have
// changed and bloom filters cannot forget the old one.
func (r *FilteredDiscountRepository) Update(ctx context.Context, def *discount.Definition) error {
	if err := r.Repository.Update(ctx, def); err != nil {
		return err
	}
	return r.Rebuild(ctx)
}

// Delete removes the definition and rebuilds the filter.
func (r *FilteredDiscountRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	return r.Rebuild(ctx)
}
