package backend

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateCoupon calls the validate_coupon procedure. The procedure owns
// every eligibility rule (active flag, expiry, usage cap, minimum order
// amount) and computes the discount amount against the supplied total; the
// caller never re-evaluates any of it. Returns nil when the procedure
// returned no row.
func (c *Client) ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*CouponValidation, error) {
	params := map[string]any{
		"coupon_code": code,
		"order_total": orderTotal,
	}

	var rows []CouponValidation
	if err := c.rpc(ctx, "validate_coupon", params, &rows); err != nil {
		return nil, fmt.Errorf("validate_coupon call failed: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

// CreateOrder inserts the order header and returns the server-generated id
// and order number.
func (c *Client) CreateOrder(ctx context.Context, order OrderInsert) (*CreatedOrder, error) {
	var rows []CreatedOrder
	if err := c.insertReturning(ctx, "orders", order, &rows); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("order insert returned no representation")
	}

	c.logger.Debug().
		Str("order_id", rows[0].ID).
		Str("order_number", rows[0].OrderNumber).
		Msg("order header created")

	return &rows[0], nil
}

// CreateOrderItem inserts one order line. The backend's stock decrement
// trigger fires on this insert.
func (c *Client) CreateOrderItem(ctx context.Context, item OrderItemInsert) error {
	if err := c.insert(ctx, "order_items", item); err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

// IncrementCouponUsage bumps the usage counter for a coupon code.
func (c *Client) IncrementCouponUsage(ctx context.Context, code string) error {
	params := map[string]any{
		"coupon_code": code,
	}

	if err := c.rpc(ctx, "increment_coupon_usage", params, nil); err != nil {
		return fmt.Errorf("increment_coupon_usage call failed: %w", err)
	}
	return nil
}
