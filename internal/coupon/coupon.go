package coupon

import (
	"context"

	"optique-store/internal/model"

	"github.com/shopspring/decimal"
)

// Validator translates a user-entered code plus the current subtotal into
// an accept/reject decision and a discount amount. The remote validation
// procedure is the authoritative source of truth for coupon rules (active
// flag, expiry, usage cap, minimum order amount); nothing is evaluated
// locally beyond normalising the code.
type Validator interface {
	// Validate checks a code against the current cart subtotal.
	// On accept it returns the applied coupon with the server-computed
	// discount amount. Rejections surface as *model.CouponRejectedError
	// carrying the server's reason; transport failures surface as
	// model.ErrCouponUnavailable. No retries are attempted.
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*model.AppliedCoupon, error)
}
