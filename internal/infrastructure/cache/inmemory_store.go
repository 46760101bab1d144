package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryStore implements Store with process-local storage. Suitable for
// single-instance deployments; distributed setups should use RedisStore so
// invalidation reaches every instance.
type InMemoryStore struct {
	entries sync.Map // map[string]*memEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *memEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryStore creates an in-memory projection cache
func NewInMemoryStore(logger *zap.Logger) *InMemoryStore {
	store := &InMemoryStore{
		logger: logger,
		stopCh: make(chan struct{}),
	}

	go store.cleanupExpired()

	return store
}

// Get retrieves a cached projection
func (s *InMemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if value, ok := s.entries.Load(key); ok {
		entry := value.(*memEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&s.hits, 1)
			return entry.value, true, nil
		}
		s.entries.Delete(key)
	}

	atomic.AddInt64(&s.misses, 1)
	return nil, false, nil
}

// Set stores a projection with a TTL
func (s *InMemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.entries.Store(key, &memEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete removes a cached projection
func (s *InMemoryStore) Delete(ctx context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// InvalidateAll drops every cached projection
func (s *InMemoryStore) InvalidateAll(ctx context.Context) error {
	s.entries.Range(func(key, _ any) bool {
		s.entries.Delete(key)
		return true
	})
	s.logger.Debug("Invalidated storefront cache")
	return nil
}

// Close stops the cleanup goroutine
func (s *InMemoryStore) Close() error {
	if atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		close(s.stopCh)
	}
	return nil
}

// Stats returns hit and miss counters
func (s *InMemoryStore) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&s.hits), atomic.LoadInt64(&s.misses)
}

func (s *InMemoryStore) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.entries.Range(func(key, value any) bool {
				if value.(*memEntry).isExpired() {
					s.entries.Delete(key)
				}
				return true
			})
		}
	}
}

var _ Store = (*InMemoryStore)(nil)
