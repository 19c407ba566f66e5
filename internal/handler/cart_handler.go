package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"optique-store/internal/cart"
	"optique-store/internal/middleware"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
)

// CartHandler exposes the session cart over HTTP.
type CartHandler struct {
	store  *cart.Store
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(store *cart.Store, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		store:  store,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// cartResponse is the cart as rendered to the shopper, with the derived
// subtotal and the header item count.
type cartResponse struct {
	Items     []model.CartItem `json:"items"`
	Subtotal  string           `json:"subtotal"`
	ItemCount int              `json:"itemCount"`
}

func toCartResponse(c model.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return cartResponse{
		Items:     items,
		Subtotal:  c.Subtotal().StringFixed(2),
		ItemCount: c.ItemCount(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	currentCart, err := h.store.Get(r.Context(), middleware.SessionID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to load cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(currentCart))
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item model.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	sessionID := middleware.SessionID(r)
	if err := h.store.Add(r.Context(), sessionID, item); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, r, sessionID)
}

// UpdateItem handles PUT /api/cart/items/{productID} requests. A quantity
// of zero or less removes the item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if productID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product id is required", h.logger)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	sessionID := middleware.SessionID(r)
	if err := h.store.UpdateQuantity(r.Context(), sessionID, productID, req.Quantity); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, r, sessionID)
}

// RemoveItem handles DELETE /api/cart/items/{productID} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if productID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product id is required", h.logger)
		return
	}

	sessionID := middleware.SessionID(r)
	if err := h.store.Remove(r.Context(), sessionID, productID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, r, sessionID)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)
	if err := h.store.Clear(r.Context(), sessionID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, r, sessionID)
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, sessionID string) {
	currentCart, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to load cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(currentCart))
}
