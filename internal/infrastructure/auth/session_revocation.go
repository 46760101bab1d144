package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevoker invalidates session tokens before their natural expiry,
// used on logout and forced sign-out.
type SessionRevoker interface {
	// Revoke marks a token's JTI as revoked for the given TTL (the token's
	// remaining lifetime).
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks if a token's JTI has been revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisSessionRevoker implements SessionRevoker on Redis. Keys carry the
// token's remaining TTL so revocations expire together with the token.
type RedisSessionRevoker struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionRevoker creates a Redis-backed revoker and verifies the
// connection.
func NewRedisSessionRevoker(client *redis.Client) (*RedisSessionRevoker, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisSessionRevoker{
		client:    client,
		keyPrefix: "session:revoked:",
	}, nil
}

// Revoke implements SessionRevoker
func (r *RedisSessionRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return r.client.Set(ctx, r.keyPrefix+jti, "1", ttl).Err()
}

// IsRevoked implements SessionRevoker
func (r *RedisSessionRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InMemorySessionRevoker is a map-backed revoker for development and
// tests, where a Redis instance is not available.
type InMemorySessionRevoker struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewInMemorySessionRevoker creates an in-memory revoker
func NewInMemorySessionRevoker() *InMemorySessionRevoker {
	return &InMemorySessionRevoker{revoked: make(map[string]time.Time)}
}

// Revoke implements SessionRevoker
func (r *InMemorySessionRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked implements SessionRevoker
func (r *InMemorySessionRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.mu.RLock()
	until, ok := r.revoked[jti]
	r.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		r.mu.Lock()
		delete(r.revoked, jti)
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}

var _ SessionRevoker = (*RedisSessionRevoker)(nil)
var _ SessionRevoker = (*InMemorySessionRevoker)(nil)
