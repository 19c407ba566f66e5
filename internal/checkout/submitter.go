package checkout

import (
	"context"
	"strings"
	"sync"

	"optique-store/internal/backend"
	"optique-store/internal/cache"
	"optique-store/internal/cart"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// State is the submission state for one checkout session.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SettingsSource provides the settings map for the delivery fee lookup.
type SettingsSource interface {
	GetSettings(ctx context.Context) (model.Settings, error)
}

// Submitter runs the checkout sequence: create the order header, create
// each order line, bump coupon usage, then clear the cart and invalidate
// stock-bearing caches. Only a header-creation failure reaches the failed
// state; by then nothing has been created, so the cart is left intact for
// a retry.
type Submitter struct {
	orders      backend.OrderService
	settings    SettingsSource
	carts       *cart.Store
	invalidator cache.Invalidator
	defaultFee  decimal.Decimal
	logger      zerolog.Logger

	mu     sync.Mutex
	states map[string]State
}

// NewSubmitter creates an order submitter. defaultFee is the home-delivery
// fee used when the settings lookup fails.
func NewSubmitter(
	orders backend.OrderService,
	settings SettingsSource,
	carts *cart.Store,
	invalidator cache.Invalidator,
	defaultFee decimal.Decimal,
	logger zerolog.Logger,
) *Submitter {
	return &Submitter{
		orders:      orders,
		settings:    settings,
		carts:       carts,
		invalidator: invalidator,
		defaultFee:  defaultFee,
		logger:      logger.With().Str("component", "order-submitter").Logger(),
		states:      make(map[string]State),
	}
}

// State reports the current submission state for a session: StateSubmitting
// while an attempt is in flight, StateIdle otherwise.
func (s *Submitter) State(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[sessionID]
}

// Submit runs one checkout attempt for a session. Guards: the request must
// pass local validation, the cart must be non-empty, and no other
// submission may be in flight for the session.
func (s *Submitter) Submit(ctx context.Context, sessionID string, req model.CheckoutRequest) (*model.OrderConfirmation, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	currentCart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if currentCart.IsEmpty() {
		return nil, model.ErrCartEmpty
	}

	if !s.begin(sessionID) {
		return nil, model.ErrSubmissionInFlight
	}

	confirmation, err := s.run(ctx, sessionID, currentCart, req)
	s.finish(sessionID, err == nil)
	return confirmation, err
}

// begin transitions idle -> submitting. Returns false when a submission is
// already in flight for the session.
func (s *Submitter) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.states[sessionID] == StateSubmitting {
		return false
	}
	s.states[sessionID] = StateSubmitting
	return true
}

// finish drops the in-flight marker; the terminal outcome travels in
// Submit's return values. Shopper sessions are one-shot, so the map holds
// only active submissions and never accumulates finished ones.
func (s *Submitter) finish(sessionID string, succeeded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)

	terminal := StateFailed
	if succeeded {
		terminal = StateSucceeded
	}
	s.logger.Debug().
		Str("session_id", sessionID).
		Stringer("state", terminal).
		Msg("submission finished")
}

// run executes the submission steps strictly in sequence.
func (s *Submitter) run(ctx context.Context, sessionID string, currentCart model.Cart, req model.CheckoutRequest) (*model.OrderConfirmation, error) {
	subtotal := currentCart.Subtotal()
	discount := decimal.Zero
	couponCode := ""
	if req.Coupon != nil {
		discount = req.Coupon.DiscountAmount
		// The backend stores codes uppercased; the order row and the
		// usage increment must carry the same form validation used.
		couponCode = model.NormalizeCouponCode(req.Coupon.Code)
	}
	fee := s.deliveryFee(ctx, req.DeliveryMethod)
	total := model.FinalTotal(subtotal, discount, fee)

	// Step 1: order header. A failure here is clean; nothing has been
	// created yet and the cart stays intact for a retry.
	created, err := s.orders.CreateOrder(ctx, s.buildOrder(req, couponCode, total, discount))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("order header creation failed")
		return nil, model.ErrSubmissionFailed
	}

	// Step 2: one line per cart item, in cart order. Item failures are
	// logged and skipped; the loop keeps going, so an order can end up
	// with fewer lines than the cart had.
	failed := 0
	for _, item := range currentCart.Items {
		productID := item.ProductID
		itemErr := s.orders.CreateOrderItem(ctx, backend.OrderItemInsert{
			OrderID:         created.ID,
			ProductID:       &productID,
			ProductName:     item.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.Price,
		})
		if itemErr != nil {
			failed++
			s.logger.Warn().
				Err(itemErr).
				Str("order_id", created.ID).
				Str("product_id", item.ProductID).
				Msg("order item creation failed")
		}
	}
	if failed > 0 {
		s.logger.Warn().
			Str("order_id", created.ID).
			Int("failed_items", failed).
			Int("total_items", len(currentCart.Items)).
			Msg("order submitted with missing items")
	}

	// Step 3: coupon usage increment, non-blocking.
	if couponCode != "" {
		if usageErr := s.orders.IncrementCouponUsage(ctx, couponCode); usageErr != nil {
			s.logger.Warn().
				Err(usageErr).
				Str("coupon_code", couponCode).
				Msg("coupon usage increment failed")
		}
	}

	// Step 4: clear the cart and mark stock-bearing views stale so reads
	// reflect the trigger-driven decrement.
	if clearErr := s.carts.Clear(ctx, sessionID); clearErr != nil {
		s.logger.Error().
			Err(clearErr).
			Str("session_id", sessionID).
			Msg("failed to clear cart after submission")
	}
	if invErr := s.invalidator.Invalidate(ctx, cache.StockBearingKeys()...); invErr != nil {
		s.logger.Warn().Err(invErr).Msg("cache invalidation failed")
	}

	s.logger.Info().
		Str("order_id", created.ID).
		Str("order_number", created.OrderNumber).
		Str("total", total.String()).
		Int("item_count", len(currentCart.Items)).
		Msg("order submitted")

	return &model.OrderConfirmation{
		OrderID:     created.ID,
		OrderNumber: created.OrderNumber,
		Total:       total,
	}, nil
}

func (s *Submitter) buildOrder(req model.CheckoutRequest, couponCode string, total, discount decimal.Decimal) backend.OrderInsert {
	order := backend.OrderInsert{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		DeliveryMethod: string(req.DeliveryMethod),
		Total:          total,
		DiscountAmount: discount,
	}

	if req.DeliveryMethod == model.DeliveryHome {
		address := strings.TrimSpace(req.CustomerAddress)
		order.CustomerAddress = &address
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		order.Notes = &notes
	}
	if couponCode != "" {
		order.CouponCode = &couponCode
	}

	return order
}

// deliveryFee resolves the fee for the chosen method: zero for pickup, the
// delivery_price setting for home delivery. A settings failure falls back
// to the configured default rather than blocking the checkout.
func (s *Submitter) deliveryFee(ctx context.Context, method model.DeliveryMethod) decimal.Decimal {
	if method != model.DeliveryHome {
		return decimal.Zero
	}

	settings, err := s.settings.GetSettings(ctx)
	if err == nil {
		if raw, ok := settings[model.DeliveryPriceKey]; ok && raw != "" {
			if fee, parseErr := decimal.NewFromString(raw); parseErr == nil && !fee.IsNegative() {
				return fee
			}
			s.logger.Warn().Str("value", raw).Msg("unparseable delivery_price setting")
		}
	} else {
		s.logger.Warn().Err(err).Msg("settings lookup failed, using default delivery fee")
	}

	return s.defaultFee
}
