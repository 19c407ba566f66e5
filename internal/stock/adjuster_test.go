package stock

import (
	"context"
	"errors"
	"testing"

	"optique-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStockService is a mock implementation of backend.StockService.
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) GetProductStock(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockStockService) UpdateProductStock(ctx context.Context, productID string, expectedStock, newStock int) error {
	args := m.Called(ctx, productID, expectedStock, newStock)
	return args.Error(0)
}

// MockInvalidator is a mock implementation of cache.Invalidator.
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, names ...string) error {
	args := m.Called(ctx, names)
	return args.Error(0)
}

func TestAdjuster_Deduct_Success(t *testing.T) {
	stocks := new(MockStockService)
	invalidator := new(MockInvalidator)
	adjuster := NewAdjuster(stocks, invalidator, zerolog.Nop())
	ctx := context.Background()

	stocks.On("GetProductStock", ctx, "P1").Return(10, nil).Once()
	stocks.On("UpdateProductStock", ctx, "P1", 10, 7).Return(nil).Once()
	invalidator.On("Invalidate", ctx, mock.AnythingOfType("[]string")).Return(nil).Once()

	adjustment, err := adjuster.Deduct(ctx, "P1", 3)
	require.NoError(t, err)
	assert.Equal(t, "P1", adjustment.ProductID)
	assert.Equal(t, 7, adjustment.NewStock)

	stocks.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestAdjuster_Deduct_ToExactlyZero(t *testing.T) {
	stocks := new(MockStockService)
	invalidator := new(MockInvalidator)
	adjuster := NewAdjuster(stocks, invalidator, zerolog.Nop())
	ctx := context.Background()

	stocks.On("GetProductStock", ctx, "P1").Return(3, nil).Once()
	stocks.On("UpdateProductStock", ctx, "P1", 3, 0).Return(nil).Once()
	invalidator.On("Invalidate", ctx, mock.AnythingOfType("[]string")).Return(nil).Once()

	adjustment, err := adjuster.Deduct(ctx, "P1", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, adjustment.NewStock)
}

func TestAdjuster_Deduct_RefusesNegativeStock(t *testing.T) {
	stocks := new(MockStockService)
	invalidator := new(MockInvalidator)
	adjuster := NewAdjuster(stocks, invalidator, zerolog.Nop())
	ctx := context.Background()

	stocks.On("GetProductStock", ctx, "P1").Return(2, nil).Once()

	adjustment, err := adjuster.Deduct(ctx, "P1", 3)
	assert.Nil(t, adjustment)
	assert.Equal(t, model.ErrInsufficientStock, err)

	stocks.AssertNotCalled(t, "UpdateProductStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestAdjuster_Deduct_RejectsNonPositiveQuantity(t *testing.T) {
	stocks := new(MockStockService)
	invalidator := new(MockInvalidator)
	adjuster := NewAdjuster(stocks, invalidator, zerolog.Nop())

	for _, qty := range []int{0, -1} {
		adjustment, err := adjuster.Deduct(context.Background(), "P1", qty)
		assert.Nil(t, adjustment)
		assert.Equal(t, model.ErrInvalidQuantity, err)
	}
	stocks.AssertNotCalled(t, "GetProductStock", mock.Anything, mock.Anything)
}

func TestAdjuster_Deduct_UnknownProduct(t *testing.T) {
	stocks := new(MockStockService)
	invalidator := new(MockInvalidator)
	adjuster := NewAdjuster(stocks, invalidator, zerolog.Nop())
	ctx := context.Background()

	stocks.On("GetProductStock", ctx, "P9").Return(0, model.ErrProductNotFound).Once()

	adjustment, err := adjuster.Deduct(ctx, "P9", 1)
	assert.Nil(t, adjustment)
	assert.Equal(t, model.ErrProductNotFound, err)
}

func TestAdjuster_Deduct_ConcurrentEditSurfacesConflict(t *testing.T) {
	stocks := new(MockStockService)
	invalidator := new(MockInvalidator)
	adjuster := NewAdjuster(stocks, invalidator, zerolog.Nop())
	ctx := context.Background()

	stocks.On("GetProductStock", ctx, "P1").Return(10, nil).Once()
	stocks.On("UpdateProductStock", ctx, "P1", 10, 8).Return(model.ErrStockConflict).Once()

	adjustment, err := adjuster.Deduct(ctx, "P1", 2)
	assert.Nil(t, adjustment)
	assert.Equal(t, model.ErrStockConflict, err)

	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestAdjuster_Deduct_InvalidationFailureDoesNotBlock(t *testing.T) {
	stocks := new(MockStockService)
	invalidator := new(MockInvalidator)
	adjuster := NewAdjuster(stocks, invalidator, zerolog.Nop())
	ctx := context.Background()

	stocks.On("GetProductStock", ctx, "P1").Return(5, nil).Once()
	stocks.On("UpdateProductStock", ctx, "P1", 5, 4).Return(nil).Once()
	invalidator.On("Invalidate", ctx, mock.AnythingOfType("[]string")).
		Return(errors.New("redis down")).Once()

	adjustment, err := adjuster.Deduct(ctx, "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, adjustment.NewStock)
}
