package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"optique-store/internal/cart"
	"optique-store/internal/checkout"
	"optique-store/internal/coupon"
	"optique-store/internal/middleware"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
)

// CheckoutHandler drives coupon validation and order submission.
type CheckoutHandler struct {
	store     *cart.Store
	validator coupon.Validator
	submitter *checkout.Submitter
	logger    zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(
	store *cart.Store,
	validator coupon.Validator,
	submitter *checkout.Submitter,
	logger zerolog.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		store:     store,
		validator: validator,
		submitter: submitter,
		logger:    logger.With().Str("handler", "checkout").Logger(),
	}
}

// ValidateCoupon handles POST /api/checkout/coupon requests. The code is
// checked against the current session subtotal; the discount amount in the
// response comes from the server, never a local computation.
func (h *CheckoutHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	currentCart, err := h.store.Get(r.Context(), middleware.SessionID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to load cart", h.logger)
		return
	}
	if currentCart.IsEmpty() {
		writeDomainError(w, model.ErrCartEmpty, h.logger)
		return
	}

	applied, err := h.validator.Validate(r.Context(), req.Code, currentCart.Subtotal())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, applied)
}

// Submit handles POST /api/checkout requests.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	confirmation, err := h.submitter.Submit(r.Context(), middleware.SessionID(r), req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, confirmation)
}

// Confirmation handles GET /api/orders/confirmation/{orderNumber}
// requests. The order number is a server-issued opaque string echoed back
// verbatim; no format validation is applied.
func (h *CheckoutHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	orderNumber := strings.TrimPrefix(r.URL.Path, "/api/orders/confirmation/")
	if orderNumber == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "order number is required", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"orderNumber": orderNumber,
		"message":     "Thank you for your order. Our team will contact you to confirm the details.",
	})
}
