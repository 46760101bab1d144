package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with its options
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter, "name", "description")
	if err := query.Preload("Options").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindStorefront returns visible products with options in display order
func (r *GormProductRepository) FindStorefront(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("visible = ?", true).
		Order("sort_order ASC, name ASC").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCategory finds products in a category
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).Where("category_id = ?", categoryID),
		filter, "name",
	)
	if err := query.Preload("Options").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDs loads products for checkout validation
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Preload("Options").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product and its options
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

// Delete deletes a product, cascading to its options
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.ProductOption{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&catalog.Product{}), filter, "name", "description")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormProductOptionRepository implements ProductOptionRepository using GORM
type GormProductOptionRepository struct {
	db *gorm.DB
}

// NewGormProductOptionRepository creates a new GormProductOptionRepository
func NewGormProductOptionRepository(db *gorm.DB) *GormProductOptionRepository {
	return &GormProductOptionRepository{db: db}
}

// FindByID finds an option group by its ID
func (r *GormProductOptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductOption, error) {
	var option catalog.ProductOption
	if err := r.db.WithContext(ctx).First(&option, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// FindByProduct returns a product's option groups in display order
func (r *GormProductOptionRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductOption, error) {
	var options []catalog.ProductOption
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// Save creates or updates an option group
func (r *GormProductOptionRepository) Save(ctx context.Context, option *catalog.ProductOption) error {
	return r.db.WithContext(ctx).Save(option).Error
}

// Delete deletes an option group
func (r *GormProductOptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductOption{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductOptionRepository implements ProductOptionRepository
var _ catalog.ProductOptionRepository = (*GormProductOptionRepository)(nil)
