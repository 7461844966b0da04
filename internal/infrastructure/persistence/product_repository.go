package persistence

import (
	"context"
	"errors"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productUpdateColumns are written by Update; id and created_at never change
var productUpdateColumns = []string{
	"name", "description", "price", "quantity", "categories", "available", "updated_at",
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByName finds the product with exactly this name
func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll finds all products matching the filter in creation order
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}

	var rows []models.ProductModel
	if err := query.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// ExistsByName checks whether a product other than excludeID uses name
func (r *GormProductRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert stores a new product
func (r *GormProductRepository) Insert(ctx context.Context, product *catalog.Product) error {
	if err := r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error; err != nil {
		return translateProductError(err)
	}
	return nil
}

// Update replaces the stored product matched by ID. No matching row means
// the product was deleted meanwhile and yields shared.ErrNotFound.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Select(productUpdateColumns).
		Updates(models.ProductModelFromDomain(product))
	if result.Error != nil {
		return translateProductError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// translateProductError maps unique violations to the only unique product field
func translateProductError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDuplicateKeyError("name", err)
	}
	return err
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
