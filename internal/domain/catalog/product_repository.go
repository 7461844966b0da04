package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductFilter restricts product listings. Nil fields match everything.
type ProductFilter struct {
	Name      *string
	Available *bool
}

// Matches reports whether p satisfies every set condition
func (f ProductFilter) Matches(p *Product) bool {
	if f.Name != nil && p.Name != *f.Name {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	return true
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByName finds the product with exactly this name
	FindByName(ctx context.Context, name string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// ExistsByName checks whether another product already uses name.
	// The product identified by excludeID is ignored.
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// Insert stores a new product.
	// A unique index collision returns *shared.DuplicateKeyError.
	Insert(ctx context.Context, product *Product) error

	// Update replaces the stored product only if a product with the same ID
	// still exists, returning shared.ErrNotFound otherwise.
	Update(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}
