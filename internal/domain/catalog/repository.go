package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	// FindStorefront returns visible products with their options, ordered
	// for display
	FindStorefront(ctx context.Context) ([]Product, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CategoryRepository defines the persistence interface for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	FindActiveOrdered(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error)
}

// ProductOptionRepository defines the persistence interface for option groups
type ProductOptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductOption, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductOption, error)
	Save(ctx context.Context, option *ProductOption) error
	Delete(ctx context.Context, id uuid.UUID) error
}
