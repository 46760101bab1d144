package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/sabores/backend/internal/infrastructure/cache"
)

// CategoryService handles menu category operations
type CategoryService struct {
	categories catalog.CategoryRepository
	cache      cache.Store
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories catalog.CategoryRepository, store cache.Store) *CategoryService {
	return &CategoryService{categories: categories, cache: store}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	category.SetSortOrder(req.SortOrder)
	if !req.Active {
		category.Deactivate()
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update renames and reorders a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}
	category.SetSortOrder(req.SortOrder)
	if req.Active {
		category.Activate()
	} else {
		category.Deactivate()
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) ([]CategoryResponse, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
		filter.OrderDir = "asc"
	}

	categories, err := s.categories.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = ToCategoryResponse(&categories[i])
	}
	return items, nil
}

// Delete removes a category. Categories still holding products cannot be
// deleted; their products must be moved or removed first.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	hasProducts, err := s.categories.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return shared.NewDomainError("CATEGORY_NOT_EMPTY", "Category still has products assigned")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cache.KeyStorefrontCatalog)
}
