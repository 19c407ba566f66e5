package handler

import (
	"encoding/json"
	"net/http"

	"optique-store/internal/model"
	"optique-store/internal/stock"

	"github.com/rs/zerolog"
)

// AdminHandler exposes back-office operations. Every route it serves sits
// behind the admin API key middleware.
type AdminHandler struct {
	adjuster *stock.Adjuster
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adjuster *stock.Adjuster, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adjuster: adjuster,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// AdjustStock handles POST /api/admin/stock/adjust requests. It deducts a
// purchased quantity from a product's recorded stock, refusing to go below
// zero and reporting a conflict when the stock changed underneath the caller.
func (h *AdminHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "productId is required", h.logger)
		return
	}

	adjustment, err := h.adjuster.Deduct(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, adjustment)
}
