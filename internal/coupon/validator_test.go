package coupon

import (
	"context"
	"errors"
	"testing"

	"optique-store/internal/backend"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCouponService is a mock implementation of backend.CouponService.
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*backend.CouponValidation, error) {
	args := m.Called(ctx, code, orderTotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.CouponValidation), args.Error(1)
}

func TestValidator_Validate_Success(t *testing.T) {
	service := new(MockCouponService)
	v := NewValidator(service, zerolog.Nop())
	ctx := context.Background()

	subtotal := decimal.RequireFromString("100.00")
	service.On("ValidateCoupon", ctx, "PROMO10", subtotal).Return(&backend.CouponValidation{
		Valid:          true,
		DiscountType:   model.DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(10),
		DiscountAmount: decimal.RequireFromString("10.00"),
	}, nil).Once()

	applied, err := v.Validate(ctx, "PROMO10", subtotal)
	require.NoError(t, err)
	require.NotNil(t, applied)
	assert.Equal(t, "PROMO10", applied.Code)
	assert.Equal(t, model.DiscountPercentage, applied.DiscountType)
	assert.True(t, applied.DiscountAmount.Equal(decimal.RequireFromString("10.00")))

	service.AssertExpectations(t)
}

func TestValidator_Validate_NormalisesCode(t *testing.T) {
	service := new(MockCouponService)
	v := NewValidator(service, zerolog.Nop())
	ctx := context.Background()

	subtotal := decimal.RequireFromString("50.00")
	service.On("ValidateCoupon", ctx, "PROMO10", subtotal).Return(&backend.CouponValidation{
		Valid:          true,
		DiscountType:   model.DiscountFixed,
		DiscountValue:  decimal.NewFromInt(5),
		DiscountAmount: decimal.RequireFromString("5.00"),
	}, nil).Once()

	applied, err := v.Validate(ctx, "  promo10  ", subtotal)
	require.NoError(t, err)
	assert.Equal(t, "PROMO10", applied.Code)

	service.AssertExpectations(t)
}

func TestValidator_Validate_EmptyCode(t *testing.T) {
	service := new(MockCouponService)
	v := NewValidator(service, zerolog.Nop())

	applied, err := v.Validate(context.Background(), "   ", decimal.NewFromInt(100))
	assert.Nil(t, applied)
	assert.True(t, IsRejection(err))
	service.AssertNotCalled(t, "ValidateCoupon", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidator_Validate_RejectionCarriesServerReason(t *testing.T) {
	service := new(MockCouponService)
	v := NewValidator(service, zerolog.Nop())
	ctx := context.Background()

	subtotal := decimal.RequireFromString("20.00")
	service.On("ValidateCoupon", ctx, "PROMO10", subtotal).Return(&backend.CouponValidation{
		Valid:   false,
		Message: "Minimum order amount of 50.00 not met",
	}, nil).Once()

	applied, err := v.Validate(ctx, "PROMO10", subtotal)
	assert.Nil(t, applied)

	var rejected *model.CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Minimum order amount of 50.00 not met", rejected.Error())
}

func TestValidator_Validate_AbsentRowIsRejection(t *testing.T) {
	service := new(MockCouponService)
	v := NewValidator(service, zerolog.Nop())
	ctx := context.Background()

	subtotal := decimal.RequireFromString("20.00")
	service.On("ValidateCoupon", ctx, "NOPE", subtotal).Return(nil, nil).Once()

	applied, err := v.Validate(ctx, "NOPE", subtotal)
	assert.Nil(t, applied)

	var rejected *model.CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Coupon code is not valid", rejected.Error())
}

func TestValidator_Validate_TransportFailure(t *testing.T) {
	service := new(MockCouponService)
	v := NewValidator(service, zerolog.Nop())
	ctx := context.Background()

	subtotal := decimal.RequireFromString("20.00")
	service.On("ValidateCoupon", ctx, "PROMO10", subtotal).
		Return(nil, errors.New("connection refused")).Once()

	applied, err := v.Validate(ctx, "PROMO10", subtotal)
	assert.Nil(t, applied)
	assert.Equal(t, model.ErrCouponUnavailable, err)
	assert.False(t, IsRejection(err))
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(&model.CouponRejectedError{Reason: "expired"}))
	assert.False(t, IsRejection(errors.New("boom")))
	assert.False(t, IsRejection(nil))
}
