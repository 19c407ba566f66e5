// Package cache provides the Redis-backed query cache for catalogue and
// settings reads, and the invalidation signal issued after a successful
// checkout so stale stock views are re-fetched.
package cache

import (
	"context"
	"strconv"
	"time"
)

// Logical cache names, mirroring the storefront's query keys.
const (
	KeyProducts        = "products"
	KeyFeaturedProduct = "featured-products"
	KeyLatestProducts  = "latest-products"
	KeyAdminProducts   = "admin-products"
	KeyBrands          = "brands"
	KeyCategories      = "categories"
	KeySettings        = "settings"
)

// ProductKey returns the cache name for a single product view.
func ProductKey(slug string) string {
	return "product:" + slug
}

// ListingKey returns the cache name for a limit-bounded listing. Each
// distinct limit gets its own entry so one request's limit never shapes
// another's result.
func ListingKey(name string, limit int) string {
	return name + ":" + strconv.Itoa(limit)
}

// StockBearingKeys lists every cached view that carries stock and must be
// invalidated once the server-side decrement trigger has run.
func StockBearingKeys() []string {
	return []string{
		KeyProducts,
		"product:*",
		KeyFeaturedProduct + ":*",
		KeyLatestProducts + ":*",
		KeyAdminProducts,
	}
}

// Invalidator marks cached views as stale. This is a cache-coherency
// nudge, not a data mutation.
type Invalidator interface {
	// Invalidate removes the named entries. A name ending in "*" removes
	// every entry matching the prefix.
	Invalidate(ctx context.Context, names ...string) error
}

// Store is a cache-aside JSON store over logical names.
type Store interface {
	Invalidator

	// GetJSON decodes a cached entry into out. The bool reports a hit.
	GetJSON(ctx context.Context, name string, out any) (bool, error)

	// SetJSON stores a JSON-encoded entry with a TTL.
	SetJSON(ctx context.Context, name string, value any, ttl time.Duration) error
}
