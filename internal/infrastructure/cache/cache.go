package cache

import (
	"context"
	"time"
)

// Store caches rendered storefront projections (catalog snapshots, public
// settings) as opaque byte blobs. A miss returns found=false with no error;
// errors are reserved for backend failures so callers can fall through to
// the database.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// InvalidateAll drops every cached projection. Called after any admin
	// write that changes what the storefront serves.
	InvalidateAll(ctx context.Context) error

	Close() error
}

// Well-known projection keys
const (
	KeyStorefrontCatalog  = "storefront:catalog"
	KeyStorefrontSettings = "storefront:settings"
)
