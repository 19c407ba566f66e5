package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType distinguishes percentage coupons from fixed-amount ones.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// AppliedCoupon represents a discount accepted for the current checkout
// attempt. The discount amount is computed server-side against the subtotal
// the code was validated with; it is never recomputed locally.
type AppliedCoupon struct {
	Code           string          `json:"code"`
	DiscountType   DiscountType    `json:"discountType"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// NormalizeCouponCode canonicalises a code the way the backend stores
// coupons: trimmed and uppercased. Every remote call carrying a code goes
// through this first.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FinalTotal computes the payable total for a checkout attempt. The
// discounted subtotal is clamped at zero before the delivery fee is added,
// so the result is never negative.
func FinalTotal(subtotal, discount, deliveryFee decimal.Decimal) decimal.Decimal {
	discounted := subtotal.Sub(discount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	return discounted.Add(deliveryFee)
}
