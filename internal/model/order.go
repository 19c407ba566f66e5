package model

import "github.com/shopspring/decimal"

// DeliveryMethod selects between in-store pickup and home delivery.
type DeliveryMethod string

const (
	DeliveryPickup DeliveryMethod = "pickup"
	DeliveryHome   DeliveryMethod = "delivery"
)

// CheckoutRequest is the payload of a final checkout submission.
// Address is required for home delivery and omitted for pickup. The coupon,
// if present, must have been validated against the cart subtotal first.
type CheckoutRequest struct {
	CustomerName    string         `json:"customerName"`
	CustomerPhone   string         `json:"customerPhone"`
	CustomerAddress string         `json:"customerAddress,omitempty"`
	DeliveryMethod  DeliveryMethod `json:"deliveryMethod"`
	Notes           string         `json:"notes,omitempty"`
	Coupon          *AppliedCoupon `json:"coupon,omitempty"`
}

// OrderConfirmation carries the server-issued identifiers for a submitted
// order. The order itself is owned by the remote backend; the client keeps
// only what the confirmation view needs.
type OrderConfirmation struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
}
