package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeCartEmpty          = "CART_EMPTY"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeCouponRejected     = "COUPON_REJECTED"
	ErrCodeCouponUnavailable  = "COUPON_UNAVAILABLE"
	ErrCodeSubmissionInFlight = "SUBMISSION_IN_FLIGHT"
	ErrCodeSubmissionFailed   = "SUBMISSION_FAILED"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeStockConflict      = "STOCK_CONFLICT"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCartEmpty          = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCouponUnavailable  = NewDomainError(ErrCodeCouponUnavailable, "Could not validate the coupon code, please try again")
	ErrSubmissionInFlight = NewDomainError(ErrCodeSubmissionInFlight, "A submission is already in progress for this session")
	ErrSubmissionFailed   = NewDomainError(ErrCodeSubmissionFailed, "An error occurred while placing the order, please try again")
	ErrInsufficientStock  = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock available")
	ErrStockConflict      = NewDomainError(ErrCodeStockConflict, "Stock was modified concurrently, please retry")
)

// CouponRejectedError carries the server-provided rejection reason verbatim.
// A rejection is an expected outcome, not a fault.
type CouponRejectedError struct {
	Reason string
}

func (e *CouponRejectedError) Error() string {
	if e.Reason == "" {
		return "Coupon code is not valid"
	}
	return e.Reason
}
