package coupon

import (
	"context"
	"errors"

	"optique-store/internal/backend"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// validator implements Validator by delegating to the remote
// validate_coupon procedure.
type validator struct {
	coupons backend.CouponService
	logger  zerolog.Logger
}

// NewValidator creates a coupon validator backed by the remote procedure.
func NewValidator(coupons backend.CouponService, logger zerolog.Logger) Validator {
	return &validator{
		coupons: coupons,
		logger:  logger.With().Str("component", "coupon-validator").Logger(),
	}
}

// Validate checks a code against the current cart subtotal.
func (v *validator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*model.AppliedCoupon, error) {
	normalised := model.NormalizeCouponCode(code)
	if normalised == "" {
		return nil, &model.CouponRejectedError{}
	}

	result, err := v.coupons.ValidateCoupon(ctx, normalised, subtotal)
	if err != nil {
		// Transient/network class: surfaced generically, never as a
		// coupon rejection. The shopper may re-submit manually.
		v.logger.Warn().
			Err(err).
			Str("coupon_code", normalised).
			Msg("coupon validation call failed")
		return nil, model.ErrCouponUnavailable
	}

	if result == nil || !result.Valid {
		reason := ""
		if result != nil {
			reason = result.Message
		}
		v.logger.Debug().
			Str("coupon_code", normalised).
			Str("reason", reason).
			Msg("coupon rejected")
		return nil, &model.CouponRejectedError{Reason: reason}
	}

	v.logger.Info().
		Str("coupon_code", normalised).
		Str("discount_type", string(result.DiscountType)).
		Str("discount_amount", result.DiscountAmount.String()).
		Msg("coupon validated")

	return &model.AppliedCoupon{
		Code:           normalised,
		DiscountType:   result.DiscountType,
		DiscountValue:  result.DiscountValue,
		DiscountAmount: result.DiscountAmount,
	}, nil
}

// IsRejection reports whether err is a coupon rejection (an expected
// outcome carrying the server's reason) rather than a fault.
func IsRejection(err error) bool {
	var rejected *model.CouponRejectedError
	return errors.As(err, &rejected)
}
