package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/infrastructure/cache"
)

// OptionService handles product option group operations
type OptionService struct {
	options  catalog.ProductOptionRepository
	products catalog.ProductRepository
	cache    cache.Store
}

// NewOptionService creates a new OptionService
func NewOptionService(options catalog.ProductOptionRepository, products catalog.ProductRepository, store cache.Store) *OptionService {
	return &OptionService{options: options, products: products, cache: store}
}

// Create adds an option group to a product
func (s *OptionService) Create(ctx context.Context, productID uuid.UUID, req OptionRequest) (*OptionResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	option, err := catalog.NewProductOption(productID, req.Name, req.MinSelect, req.MaxSelect, req.DomainChoices())
	if err != nil {
		return nil, err
	}
	option.SetSortOrder(req.SortOrder)

	if err := s.options.Save(ctx, option); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToOptionResponse(option)
	return &resp, nil
}

// Update replaces an option group's configuration
func (s *OptionService) Update(ctx context.Context, id uuid.UUID, req OptionRequest) (*OptionResponse, error) {
	option, err := s.options.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := option.Update(req.Name, req.MinSelect, req.MaxSelect, req.DomainChoices()); err != nil {
		return nil, err
	}
	option.SetSortOrder(req.SortOrder)

	if err := s.options.Save(ctx, option); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToOptionResponse(option)
	return &resp, nil
}

// ListByProduct retrieves a product's option groups
func (s *OptionService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]OptionResponse, error) {
	options, err := s.options.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	items := make([]OptionResponse, len(options))
	for i := range options {
		items[i] = ToOptionResponse(&options[i])
	}
	return items, nil
}

// Delete removes an option group
func (s *OptionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.options.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *OptionService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cache.KeyStorefrontCatalog)
}
