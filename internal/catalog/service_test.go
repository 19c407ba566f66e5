package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"optique-store/internal/cache"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogService is a mock implementation of backend.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, categorySlug string) ([]model.Product, error) {
	args := m.Called(ctx, categorySlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) ListLatestProducts(ctx context.Context, limit int) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Brand), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogService) GetSettings(ctx context.Context) (model.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Settings), args.Error(1)
}

// memoryStore is an in-process cache.Store; failGets/failSets force error
// paths.
type memoryStore struct {
	mu       sync.Mutex
	entries  map[string][]byte
	failGets bool
	failSets bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string][]byte)}
}

func (m *memoryStore) GetJSON(_ context.Context, name string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGets {
		return false, errors.New("cache unavailable")
	}
	data, ok := m.entries[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}

func (m *memoryStore) SetJSON(_ context.Context, name string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSets {
		return errors.New("cache unavailable")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[name] = data
	return nil
}

func (m *memoryStore) Invalidate(_ context.Context, names ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		if prefix, ok := strings.CutSuffix(name, "*"); ok {
			for key := range m.entries {
				if strings.HasPrefix(key, prefix) {
					delete(m.entries, key)
				}
			}
			continue
		}
		delete(m.entries, name)
	}
	return nil
}

func sampleProducts() []model.Product {
	return []model.Product{
		{
			ID:          "P1",
			Name:        "Aviator Classic",
			Slug:        "aviator-classic",
			Price:       decimal.RequireFromString("55.00"),
			Stock:       10,
			IsPublished: true,
		},
	}
}

func TestService_Products_CachesUnfilteredListing(t *testing.T) {
	remote := new(MockCatalogService)
	store := newMemoryStore()
	service := NewService(remote, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("ListProducts", ctx, "").Return(sampleProducts(), nil).Once()

	first, err := service.Products(ctx, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second read is served from the cache; the mock allows one call only.
	second, err := service.Products(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first[0].Slug, second[0].Slug)

	remote.AssertExpectations(t)
}

func TestService_Products_CategoryFilterBypassesCache(t *testing.T) {
	remote := new(MockCatalogService)
	store := newMemoryStore()
	service := NewService(remote, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("ListProducts", ctx, "sunglasses").Return(sampleProducts(), nil).Times(2)

	_, err := service.Products(ctx, "sunglasses")
	require.NoError(t, err)
	_, err = service.Products(ctx, "sunglasses")
	require.NoError(t, err)

	remote.AssertExpectations(t)
	assert.Empty(t, store.entries)
}

func TestService_Products_CacheReadFailureDegradesToDirectFetch(t *testing.T) {
	remote := new(MockCatalogService)
	store := newMemoryStore()
	store.failGets = true
	service := NewService(remote, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("ListProducts", ctx, "").Return(sampleProducts(), nil).Times(2)

	_, err := service.Products(ctx, "")
	require.NoError(t, err)
	_, err = service.Products(ctx, "")
	require.NoError(t, err)

	remote.AssertExpectations(t)
}

func TestService_Products_CacheWriteFailureDoesNotBlock(t *testing.T) {
	remote := new(MockCatalogService)
	store := newMemoryStore()
	store.failSets = true
	service := NewService(remote, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("ListProducts", ctx, "").Return(sampleProducts(), nil).Once()

	products, err := service.Products(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestService_Products_BackendFailure(t *testing.T) {
	remote := new(MockCatalogService)
	service := NewService(remote, newMemoryStore(), time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("ListProducts", ctx, "").Return(nil, errors.New("bad gateway")).Once()

	products, err := service.Products(ctx, "")
	assert.Error(t, err)
	assert.Nil(t, products)
}

func TestService_ProductBySlug(t *testing.T) {
	remote := new(MockCatalogService)
	store := newMemoryStore()
	service := NewService(remote, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	product := &sampleProducts()[0]
	remote.On("GetProductBySlug", ctx, "aviator-classic").Return(product, nil).Once()

	got, err := service.ProductBySlug(ctx, "aviator-classic")
	require.NoError(t, err)
	assert.Equal(t, "P1", got.ID)

	// Cached under a per-slug key
	got, err = service.ProductBySlug(ctx, "aviator-classic")
	require.NoError(t, err)
	assert.Equal(t, "P1", got.ID)

	remote.AssertExpectations(t)
}

func TestService_ProductBySlug_NotFound(t *testing.T) {
	remote := new(MockCatalogService)
	service := NewService(remote, newMemoryStore(), time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("GetProductBySlug", ctx, "missing").Return(nil, nil).Once()

	got, err := service.ProductBySlug(ctx, "missing")
	assert.Nil(t, got)
	assert.Equal(t, model.ErrProductNotFound, err)
}

func TestService_FeaturedProducts_ClampsLimit(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"zero defaults", 0, 8},
		{"negative defaults", -3, 8},
		{"oversized defaults", 100, 8},
		{"in range kept", 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := new(MockCatalogService)
			service := NewService(remote, newMemoryStore(), time.Minute, zerolog.Nop())
			ctx := context.Background()

			remote.On("ListFeaturedProducts", ctx, tt.wantLimit).Return(sampleProducts(), nil).Once()

			_, err := service.FeaturedProducts(ctx, tt.limit)
			require.NoError(t, err)
			remote.AssertExpectations(t)
		})
	}
}

func TestService_FeaturedProducts_CachesPerLimit(t *testing.T) {
	listing := func(n int) []model.Product {
		products := make([]model.Product, n)
		for i := range products {
			products[i] = model.Product{ID: fmt.Sprintf("P%d", i+1), IsPublished: true, IsFeatured: true}
		}
		return products
	}

	remote := new(MockCatalogService)
	store := newMemoryStore()
	service := NewService(remote, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("ListFeaturedProducts", ctx, 2).Return(listing(2), nil).Once()
	remote.On("ListFeaturedProducts", ctx, 10).Return(listing(10), nil).Once()

	small, err := service.FeaturedProducts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, small, 2)

	// A larger request must not be served the smaller cached listing.
	large, err := service.FeaturedProducts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, large, 10)

	// Repeats of either limit are cache hits.
	small, err = service.FeaturedProducts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, small, 2)

	remote.AssertExpectations(t)
	assert.Contains(t, store.entries, cache.ListingKey(cache.KeyFeaturedProduct, 2))
	assert.Contains(t, store.entries, cache.ListingKey(cache.KeyFeaturedProduct, 10))
}

func TestService_LatestProducts_CachesPerLimit(t *testing.T) {
	remote := new(MockCatalogService)
	store := newMemoryStore()
	service := NewService(remote, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("ListLatestProducts", ctx, 4).Return(sampleProducts(), nil).Once()
	remote.On("ListLatestProducts", ctx, 8).Return(sampleProducts(), nil).Once()

	_, err := service.LatestProducts(ctx, 4)
	require.NoError(t, err)
	_, err = service.LatestProducts(ctx, 8)
	require.NoError(t, err)

	remote.AssertExpectations(t)
	assert.Contains(t, store.entries, cache.ListingKey(cache.KeyLatestProducts, 4))
	assert.Contains(t, store.entries, cache.ListingKey(cache.KeyLatestProducts, 8))
}

func TestService_GetSettings(t *testing.T) {
	remote := new(MockCatalogService)
	store := newMemoryStore()
	service := NewService(remote, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	remote.On("GetSettings", ctx).Return(model.Settings{"delivery_price": "7.00"}, nil).Once()

	settings, err := service.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7.00", settings["delivery_price"])

	settings, err = service.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7.00", settings["delivery_price"])

	remote.AssertExpectations(t)
}
