// Package catalog serves storefront reads (products, brands, categories,
// settings) through the query cache, falling back to the hosted backend on
// a miss. Stock shown here is advisory; the authoritative check happens
// server-side at order-item creation.
package catalog

import (
	"context"
	"time"

	"optique-store/internal/backend"
	"optique-store/internal/cache"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
)

// DefaultTTL bounds staleness for cached catalogue views even when no
// checkout invalidates them.
const DefaultTTL = 5 * time.Minute

// Service provides cached catalogue reads.
type Service struct {
	backend backend.CatalogService
	cache   cache.Store
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewService creates a catalogue service. A non-positive ttl falls back to
// DefaultTTL.
func NewService(remote backend.CatalogService, cacheStore cache.Store, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		backend: remote,
		cache:   cacheStore,
		ttl:     ttl,
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

// Products lists published products, optionally restricted to a category.
// Category-filtered listings bypass the cache; the unfiltered listing is
// the hot path.
func (s *Service) Products(ctx context.Context, categorySlug string) ([]model.Product, error) {
	if categorySlug != "" {
		return s.backend.ListProducts(ctx, categorySlug)
	}
	return cached(ctx, s, cache.KeyProducts, func() ([]model.Product, error) {
		return s.backend.ListProducts(ctx, "")
	})
}

// ProductBySlug retrieves one product. Returns model.ErrProductNotFound
// when no product matches.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := cached(ctx, s, cache.ProductKey(slug), func() (*model.Product, error) {
		return s.backend.GetProductBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// FeaturedProducts lists published featured products. The clamped limit is
// part of the cache name so listings of different sizes never share an
// entry.
func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > 24 {
		limit = 8
	}
	return cached(ctx, s, cache.ListingKey(cache.KeyFeaturedProduct, limit), func() ([]model.Product, error) {
		return s.backend.ListFeaturedProducts(ctx, limit)
	})
}

// LatestProducts lists the most recently added published products.
func (s *Service) LatestProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > 24 {
		limit = 8
	}
	return cached(ctx, s, cache.ListingKey(cache.KeyLatestProducts, limit), func() ([]model.Product, error) {
		return s.backend.ListLatestProducts(ctx, limit)
	})
}

// Brands lists all brands in display order.
func (s *Service) Brands(ctx context.Context) ([]model.Brand, error) {
	return cached(ctx, s, cache.KeyBrands, func() ([]model.Brand, error) {
		return s.backend.ListBrands(ctx)
	})
}

// Categories lists categories organised into their hierarchy.
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	return cached(ctx, s, cache.KeyCategories, func() ([]model.Category, error) {
		return s.backend.ListCategories(ctx)
	})
}

// GetSettings returns the shop settings map.
func (s *Service) GetSettings(ctx context.Context) (model.Settings, error) {
	return cached(ctx, s, cache.KeySettings, func() (model.Settings, error) {
		return s.backend.GetSettings(ctx)
	})
}

// cached is the cache-aside helper: hit returns the cached entry, miss
// fetches from the backend and stores the result. Cache failures degrade
// to a direct read, logged at warn.
func cached[T any](ctx context.Context, s *Service, name string, fetch func() (T, error)) (T, error) {
	var out T
	hit, err := s.cache.GetJSON(ctx, name, &out)
	if err != nil {
		s.logger.Warn().Err(err).Str("name", name).Msg("cache read failed, fetching directly")
	} else if hit {
		s.logger.Debug().Str("name", name).Msg("cache hit")
		return out, nil
	}

	fetched, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	if setErr := s.cache.SetJSON(ctx, name, fetched, s.ttl); setErr != nil {
		s.logger.Warn().Err(setErr).Str("name", name).Msg("cache write failed")
	}

	return fetched, nil
}
