package handler

import (
	"net/http"
	"strconv"
	"strings"

	"optique-store/internal/catalog"
	"optique-store/internal/model"

	"github.com/rs/zerolog"
)

// ProductHandler serves the storefront catalogue reads.
type ProductHandler struct {
	catalog *catalog.Service
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalogService *catalog.Service, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalogService,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// productView augments a product with its display stock status.
type productView struct {
	model.Product
	StockStatus string `json:"stock_status"`
}

func toView(p model.Product) productView {
	return productView{Product: p, StockStatus: model.StockStatus(p.Stock)}
}

func toViews(products []model.Product) []productView {
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = toView(p)
	}
	return views
}

// List handles GET /api/products[?category=slug] requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	products, err := h.catalog.Products(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toViews(products))
}

// Featured handles GET /api/products/featured requests.
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.catalog.FeaturedProducts(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "failed to retrieve products", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toViews(products))
}

// Latest handles GET /api/products/latest requests.
func (h *ProductHandler) Latest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.catalog.LatestProducts(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "failed to retrieve products", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toViews(products))
}

// GetBySlug handles GET /api/products/{slug} requests.
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if slug == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product slug is required", h.logger)
		return
	}

	product, err := h.catalog.ProductBySlug(r.Context(), slug)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toView(*product))
}

// Brands handles GET /api/brands requests.
func (h *ProductHandler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.Brands(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "failed to retrieve brands", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

// Categories handles GET /api/categories requests.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "failed to retrieve categories", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Settings handles GET /api/settings requests.
func (h *ProductHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.catalog.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "failed to retrieve settings", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
