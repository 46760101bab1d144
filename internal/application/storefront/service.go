package storefront

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/domain/settings"
	"github.com/sabores/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// Service serves the public storefront projections. Reads go through the
// projection cache; the admin services drop the cached entries on every
// write, so a miss rebuilds from the repositories.
type Service struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	settings   settings.SettingsRepository
	cache      cache.Store
	ttl        time.Duration
	logger     *zap.Logger
}

// NewService creates a new storefront Service
func NewService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	settingsRepo settings.SettingsRepository,
	store cache.Store,
	ttl time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		products:   products,
		categories: categories,
		settings:   settingsRepo,
		cache:      store,
		ttl:        ttl,
		logger:     logger.Named("storefront"),
	}
}

// Catalog returns the public menu: active categories in display order,
// each holding its visible products.
func (s *Service) Catalog(ctx context.Context) (*CatalogProjection, error) {
	var cached CatalogProjection
	if s.fromCache(ctx, cache.KeyStorefrontCatalog, &cached) {
		return &cached, nil
	}

	categories, err := s.categories.FindActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindStorefront(ctx)
	if err != nil {
		return nil, err
	}

	projection := buildCatalog(categories, products)
	s.toCache(ctx, cache.KeyStorefrontCatalog, projection)
	return projection, nil
}

// Settings returns the public settings projection: only what the
// storefront needs to render, never the full configuration row.
func (s *Service) Settings(ctx context.Context) (*SettingsProjection, error) {
	var cached SettingsProjection
	if s.fromCache(ctx, cache.KeyStorefrontSettings, &cached) {
		return &cached, nil
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	projection := toSettingsProjection(cfg)
	s.toCache(ctx, cache.KeyStorefrontSettings, projection)
	return projection, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dst interface{}) bool {
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("projection cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.Warn("projection cache write failed", zap.String("key", key), zap.Error(err))
	}
}
