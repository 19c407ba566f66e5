// Package stock holds the administrative stock adjustment utility. It is
// not part of the customer checkout path: customer orders decrement stock
// through a database trigger on order-item creation, owned by the backend.
package stock

import (
	"context"

	"optique-store/internal/backend"
	"optique-store/internal/cache"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
)

// Adjustment reports the outcome of a stock deduction.
type Adjustment struct {
	ProductID string `json:"productId"`
	NewStock  int    `json:"newStock"`
}

// Adjuster performs direct stock deductions for admin tooling.
type Adjuster struct {
	stocks      backend.StockService
	invalidator cache.Invalidator
	logger      zerolog.Logger
}

// NewAdjuster creates a stock adjuster.
func NewAdjuster(stocks backend.StockService, invalidator cache.Invalidator, logger zerolog.Logger) *Adjuster {
	return &Adjuster{
		stocks:      stocks,
		invalidator: invalidator,
		logger:      logger.With().Str("component", "stock-adjuster").Logger(),
	}
}

// Deduct subtracts a purchased quantity from a product's stock. The update
// is rejected when it would drive stock negative, and the write carries the
// previously read value as a guard: a concurrent admin edit surfaces as
// model.ErrStockConflict instead of a lost update.
func (a *Adjuster) Deduct(ctx context.Context, productID string, purchasedQty int) (*Adjustment, error) {
	if purchasedQty <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	current, err := a.stocks.GetProductStock(ctx, productID)
	if err != nil {
		return nil, err
	}

	newStock := current - purchasedQty
	if newStock < 0 {
		a.logger.Debug().
			Str("product_id", productID).
			Int("stock", current).
			Int("requested", purchasedQty).
			Msg("deduction would drive stock negative")
		return nil, model.ErrInsufficientStock
	}

	if err := a.stocks.UpdateProductStock(ctx, productID, current, newStock); err != nil {
		return nil, err
	}

	if invErr := a.invalidator.Invalidate(ctx, cache.StockBearingKeys()...); invErr != nil {
		a.logger.Warn().Err(invErr).Msg("cache invalidation failed after stock adjustment")
	}

	a.logger.Info().
		Str("product_id", productID).
		Int("deducted", purchasedQty).
		Int("new_stock", newStock).
		Msg("stock adjusted")

	return &Adjustment{ProductID: productID, NewStock: newStock}, nil
}
