package backend

import (
	"context"

	"optique-store/internal/model"

	"github.com/shopspring/decimal"
)

// CouponValidation is the single row returned by the validate_coupon
// procedure. Valid=false (or an absent row) means rejection, with Message
// as the user-facing reason.
type CouponValidation struct {
	Valid          bool               `json:"valid"`
	DiscountType   model.DiscountType `json:"discount_type"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Message        string             `json:"message,omitempty"`
}

// OrderInsert is the payload for creating an order header. The backend is
// expected to accept it from unauthenticated shoppers and to return a
// generated id and human-readable order number.
type OrderInsert struct {
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress *string         `json:"customer_address"`
	DeliveryMethod  string          `json:"delivery_method"`
	Notes           *string         `json:"notes"`
	Total           decimal.Decimal `json:"total"`
	CouponCode      *string         `json:"coupon_code"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
}

// CreatedOrder holds the server-issued identifiers of a new order header.
type CreatedOrder struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
}

// OrderItemInsert is the payload for one order line. ProductID is nullable
// so orders may reference deleted or custom products; the name and price
// are captured at purchase time, decoupled from the live catalogue.
type OrderItemInsert struct {
	OrderID         string          `json:"order_id"`
	ProductID       *string         `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// CouponService is the remote coupon validation contract.
type CouponService interface {
	// ValidateCoupon calls the validate_coupon procedure with the code and
	// the current order total. Returns nil when the procedure returned no
	// row (treated as a rejection by the caller).
	ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*CouponValidation, error)
}

// OrderService is the remote order creation contract.
type OrderService interface {
	// CreateOrder creates the order header and returns the server-issued
	// id and order number.
	CreateOrder(ctx context.Context, order OrderInsert) (*CreatedOrder, error)

	// CreateOrderItem creates one order line. The backend's stock
	// decrement trigger fires on this insert.
	CreateOrderItem(ctx context.Context, item OrderItemInsert) error

	// IncrementCouponUsage bumps the usage counter for a coupon code.
	IncrementCouponUsage(ctx context.Context, code string) error
}

// CatalogService is the remote catalogue read contract.
type CatalogService interface {
	// ListProducts retrieves published products, newest first, optionally
	// restricted to a category slug.
	ListProducts(ctx context.Context, categorySlug string) ([]model.Product, error)

	// GetProductBySlug retrieves a single product (published or not) by slug.
	// Returns nil when no product matches.
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)

	// ListFeaturedProducts retrieves published featured products, newest first.
	ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)

	// ListLatestProducts retrieves the most recently added published products.
	ListLatestProducts(ctx context.Context, limit int) ([]model.Product, error)

	// ListBrands retrieves all brands in display order.
	ListBrands(ctx context.Context) ([]model.Brand, error)

	// ListCategories retrieves all categories in display order, organised
	// into a two-level hierarchy.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// GetSettings retrieves the settings table folded into a map.
	GetSettings(ctx context.Context) (model.Settings, error)
}

// StockService is the remote stock read/write contract used by the admin
// adjustment utility. The customer order path never writes stock directly;
// that is owned by a database trigger on order-item creation.
type StockService interface {
	// GetProductStock reads the current stock level of a product.
	GetProductStock(ctx context.Context, productID string) (int, error)

	// UpdateProductStock writes newStock, guarded by the expected previous
	// value. Returns model.ErrStockConflict when no row matched the guard.
	UpdateProductStock(ctx context.Context, productID string, expectedStock, newStock int) error
}
