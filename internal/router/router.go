package router

import (
	"net/http"
	"strings"

	"optique-store/internal/handler"
	"optique-store/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	adminHandler *handler.AdminHandler,
	adminAPIKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no session or authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalog routes
	mux.HandleFunc("/api/products/featured", productHandler.Featured)
	mux.HandleFunc("/api/products/latest", productHandler.Latest)
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Anything beyond the collection path is a slug lookup
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetBySlug(w, r)
			return
		}
		productHandler.List(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)
	mux.HandleFunc("/api/brands", productHandler.Brands)
	mux.HandleFunc("/api/categories", productHandler.Categories)
	mux.HandleFunc("/api/settings", productHandler.Settings)

	// Cart routes
	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cartHandler.Get(w, r)
		case http.MethodDelete:
			cartHandler.Clear(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("/api/cart/items/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			cartHandler.UpdateItem(w, r)
		case http.MethodDelete:
			cartHandler.RemoveItem(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Checkout routes
	mux.HandleFunc("/api/checkout", checkoutHandler.Submit)
	mux.HandleFunc("/api/checkout/coupon", checkoutHandler.ValidateCoupon)
	mux.HandleFunc("/api/orders/confirmation/", func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/api/orders/confirmation/") == "" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		checkoutHandler.Confirmation(w, r)
	})

	// Admin routes (guarded by AdminAPIKeyAuth below)
	mux.HandleFunc("/api/admin/stock/adjust", adminHandler.AdjustStock)

	// Apply middleware in order: Recovery -> Logging -> CORS -> Session -> AdminAPIKeyAuth
	var h http.Handler = mux
	h = middleware.AdminAPIKeyAuth(adminAPIKey, logger)(h)
	h = middleware.Session(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
