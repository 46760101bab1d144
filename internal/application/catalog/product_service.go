package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/sabores/backend/internal/infrastructure/cache"
)

// ProductService handles admin product operations. Every write drops the
// storefront projection cache so customers never see stale menus.
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	cache      cache.Store
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository, categories catalog.CategoryRepository, store cache.Store) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		cache:      store,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.SortOrder = req.SortOrder

	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not exist")
		}
		product.SetCategory(req.CategoryID)
	}
	if err := product.SetTags(toDietaryTags(req.Tags)); err != nil {
		return nil, err
	}
	if req.Nutrition != nil {
		if err := product.SetNutrition(catalog.Nutrition(*req.Nutrition)); err != nil {
			return nil, err
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces a product's editable attributes
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := product.SetPrice(req.Price); err != nil {
		return nil, err
	}
	if err := product.SetTags(toDietaryTags(req.Tags)); err != nil {
		return nil, err
	}
	if req.Nutrition != nil {
		if err := product.SetNutrition(catalog.Nutrition(*req.Nutrition)); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not exist")
		}
	}
	product.SetCategory(req.CategoryID)
	product.ImageURL = req.ImageURL
	product.SetSortOrder(req.SortOrder)

	if req.Visible {
		product.Show()
	} else {
		product.Hide()
	}
	if req.Available {
		product.MarkAvailable()
	} else {
		product.MarkSoldOut()
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product with its option groups
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products with pagination
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}

	paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// SetVisibility toggles the storefront visibility of a product
func (s *ProductService) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if visible {
		product.Show()
	} else {
		product.Hide()
	}

	if err := s.products.Save(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SetAvailability marks a product available or sold out
func (s *ProductService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if available {
		product.MarkAvailable()
	} else {
		product.MarkSoldOut()
	}

	if err := s.products.Save(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a product and its option groups
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	// Invalidation failures are tolerable: the entry expires on its TTL.
	_ = s.cache.Delete(ctx, cache.KeyStorefrontCatalog)
}

func toDietaryTags(tags []string) catalog.DietaryTags {
	out := make(catalog.DietaryTags, len(tags))
	for i, tag := range tags {
		out[i] = catalog.DietaryTag(tag)
	}
	return out
}
