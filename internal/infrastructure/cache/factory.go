package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sabores/backend/internal/infrastructure/config"
)

// NewStore builds the projection cache the configuration asks for: a no-op
// when caching is disabled, Redis when a host is configured, in-memory
// otherwise. Falls back to in-memory with a warning when Redis is
// unreachable so the storefront keeps serving.
func NewStore(cfg *config.Config, logger *zap.Logger) Store {
	if !cfg.Cache.Enabled {
		return NoopStore{}
	}

	if cfg.Redis.Host != "" {
		store, err := NewRedisStore(cfg.Redis)
		if err == nil {
			logger.Info("Using Redis storefront cache", zap.String("addr", cfg.Redis.Addr()))
			return store
		}
		logger.Warn("Redis unavailable, falling back to in-memory storefront cache", zap.Error(err))
	}

	return NewInMemoryStore(logger)
}

// NoopStore disables caching: every Get is a miss and writes are dropped.
type NoopStore struct{}

func (NoopStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (NoopStore) Delete(ctx context.Context, key string) error { return nil }

func (NoopStore) InvalidateAll(ctx context.Context) error { return nil }

func (NoopStore) Close() error { return nil }

var _ Store = NoopStore{}
