package router

import (
	"net/http"

	"pawcart/internal/handler"
	"pawcart/internal/metrics"
	"pawcart/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Coupon   *handler.CouponHandler
	Shipping *handler.ShippingHandler
}

// Keys holds the shared secrets checked by the auth middleware.
type Keys struct {
	APIKey   string
	AdminKey string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, keys Keys, m *metrics.Metrics, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.Handle("GET /metrics", m.Handler())

	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("GET /api/shipping", h.Shipping.Get)

	// Cart and order routes act on the caller's own data.
	user := middleware.UserIdentity(logger)
	mux.Handle("GET /api/cart", user(http.HandlerFunc(h.Cart.Get)))
	mux.Handle("DELETE /api/cart", user(http.HandlerFunc(h.Cart.Clear)))
	mux.Handle("POST /api/cart/items", user(http.HandlerFunc(h.Cart.AddItem)))
	mux.Handle("PATCH /api/cart/items", user(http.HandlerFunc(h.Cart.UpdateQuantity)))
	mux.Handle("DELETE /api/cart/items/{lineItemId}", user(http.HandlerFunc(h.Cart.RemoveItem)))
	mux.Handle("POST /api/cart/coupon", user(http.HandlerFunc(h.Cart.ApplyCoupon)))
	mux.Handle("DELETE /api/cart/coupon", user(http.HandlerFunc(h.Cart.RemoveCoupon)))

	mux.Handle("POST /api/orders", user(http.HandlerFunc(h.Order.Create)))
	mux.Handle("GET /api/orders", user(http.HandlerFunc(h.Order.List)))
	mux.Handle("GET /api/orders/{id}", user(http.HandlerFunc(h.Order.GetByID)))

	admin := middleware.AdminAuth(keys.AdminKey, logger)
	mux.Handle("GET /api/admin/coupons", admin(http.HandlerFunc(h.Coupon.List)))
	mux.Handle("POST /api/admin/coupons", admin(http.HandlerFunc(h.Coupon.Create)))
	mux.Handle("PUT /api/admin/coupons/{code}", admin(http.HandlerFunc(h.Coupon.Update)))
	mux.Handle("DELETE /api/admin/coupons/{code}", admin(http.HandlerFunc(h.Coupon.Delete)))
	mux.Handle("PUT /api/admin/shipping", admin(http.HandlerFunc(h.Shipping.Update)))

	// Apply middleware in order: Recovery -> CorrelationID -> Logging -> Metrics -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(keys.APIKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Metrics(m)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CorrelationID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
