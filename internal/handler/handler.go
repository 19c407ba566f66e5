package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"optique-store/internal/checkout"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// fieldErrorsResponse carries per-field validation messages for inline
// display.
type fieldErrorsResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// writeDomainError maps a service error to an HTTP response.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var fieldErrs checkout.ValidationErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, fieldErrorsResponse{
			Error:  model.ErrCodeValidation,
			Fields: fieldErrs,
		})
		return
	}

	var rejected *model.CouponRejectedError
	if errors.As(err, &rejected) {
		// An expected rejection, surfaced with the server's reason.
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:   model.ErrCodeCouponRejected,
			Message: rejected.Error(),
		})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeCartEmpty, model.ErrCodeInvalidQuantity:
		return http.StatusBadRequest
	case model.ErrCodeProductNotFound:
		return http.StatusNotFound
	case model.ErrCodeSubmissionInFlight, model.ErrCodeStockConflict, model.ErrCodeInsufficientStock:
		return http.StatusConflict
	case model.ErrCodeCouponUnavailable, model.ErrCodeSubmissionFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
