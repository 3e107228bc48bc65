package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pawcart/internal/handler"
	"pawcart/internal/metrics"
	"pawcart/internal/middleware"
	"pawcart/internal/model"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey   = "api-key"
	testAdminKey = "admin-key"
)

type stubProducts struct{}

func (stubProducts) List(ctx context.Context, filter model.ProductFilter) ([]model.CatalogItem, error) {
	p := model.Product{ID: "P001", Price: decimal.NewFromInt(10)}
	return []model.CatalogItem{p.CatalogItem()}, nil
}

func (stubProducts) GetByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	if id != "P001" {
		return nil, model.ErrProductNotFound
	}
	p := model.Product{ID: id, Price: decimal.NewFromInt(10)}
	item := p.CatalogItem()
	return &item, nil
}

// stubCart echoes the owner back so tests can see which identity reached the service.
type stubCart struct{}

func (stubCart) GetCart(ctx context.Context, owner string) (*model.Cart, error) {
	return model.NewCart(owner), nil
}

func (stubCart) AddItem(ctx context.Context, owner, productRef string, quantity int) (*model.Cart, error) {
	return model.NewCart(owner), nil
}

func (stubCart) RemoveItem(ctx context.Context, owner string, lineItemID uuid.UUID) (*model.Cart, error) {
	return model.NewCart(owner), nil
}

func (stubCart) UpdateQuantity(ctx context.Context, owner, productRef string, newQuantity int) (*model.Cart, error) {
	return model.NewCart(owner), nil
}

func (stubCart) ClearCart(ctx context.Context, owner string) (*model.Cart, error) {
	return model.NewCart(owner), nil
}

func (stubCart) ApplyCoupon(ctx context.Context, owner, code string) (*model.Cart, error) {
	return model.NewCart(owner), nil
}

func (stubCart) RemoveCoupon(ctx context.Context, owner string) (*model.Cart, error) {
	return model.NewCart(owner), nil
}

type stubOrders struct{}

func (stubOrders) Checkout(ctx context.Context, owner string, req *model.CheckoutRequest, idempotencyKey string) (*model.Order, error) {
	return &model.Order{ID: uuid.New(), Owner: owner}, nil
}

func (stubOrders) GetByID(ctx context.Context, owner string, id uuid.UUID) (*model.Order, error) {
	return nil, model.ErrOrderNotFound
}

func (stubOrders) List(ctx context.Context, owner string, limit, offset int) ([]model.Order, error) {
	return []model.Order{}, nil
}

type stubCoupons struct{}

func (stubCoupons) List(ctx context.Context) ([]model.Coupon, error) {
	return []model.Coupon{}, nil
}

func (stubCoupons) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	return req.ToCoupon()
}

func (stubCoupons) Update(ctx context.Context, code string, req *model.CouponRequest) (*model.Coupon, error) {
	return nil, model.ErrCouponNotFound
}

func (stubCoupons) Delete(ctx context.Context, code string) error {
	return nil
}

type stubShipping struct{}

func (stubShipping) Load(ctx context.Context) (model.ShippingSetting, error) {
	return model.DefaultShippingSetting(), nil
}

func (stubShipping) Update(ctx context.Context, req *model.ShippingSettingRequest) (*model.ShippingSetting, error) {
	return &model.ShippingSetting{Fee: req.Fee, FreeOver: req.FreeOver}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zerolog.Nop()
	return New(Handlers{
		Product:  handler.NewProductHandler(stubProducts{}, logger),
		Cart:     handler.NewCartHandler(stubCart{}, logger),
		Order:    handler.NewOrderHandler(stubOrders{}, logger),
		Coupon:   handler.NewCouponHandler(stubCoupons{}, logger),
		Shipping: handler.NewShippingHandler(stubShipping{}, logger),
	}, Keys{APIKey: testAPIKey, AdminKey: testAdminKey}, metrics.New(prometheus.NewRegistry()), logger)
}

type routeRequest struct {
	method string
	path   string
	body   string
	user   string
	admin  bool
}

func serve(router http.Handler, rr routeRequest) *httptest.ResponseRecorder {
	req := httptest.NewRequest(rr.method, rr.path, strings.NewReader(rr.body))
	req.Header.Set(middleware.HeaderAPIKey, testAPIKey)
	if rr.user != "" {
		req.Header.Set(middleware.HeaderUserID, rr.user)
	}
	if rr.admin {
		req.Header.Set(middleware.HeaderAdminKey, testAdminKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		req            routeRequest
		expectedStatus int
	}{
		{"list products", routeRequest{method: http.MethodGet, path: "/api/products"}, http.StatusOK},
		{"list products in category", routeRequest{method: http.MethodGet, path: "/api/products?category=Dog"}, http.StatusOK},
		{"get product", routeRequest{method: http.MethodGet, path: "/api/products/P001"}, http.StatusOK},
		{"unknown product", routeRequest{method: http.MethodGet, path: "/api/products/P999"}, http.StatusNotFound},
		{"shipping settings", routeRequest{method: http.MethodGet, path: "/api/shipping"}, http.StatusOK},
		{"get cart", routeRequest{method: http.MethodGet, path: "/api/cart", user: "u1"}, http.StatusOK},
		{"clear cart", routeRequest{method: http.MethodDelete, path: "/api/cart", user: "u1"}, http.StatusOK},
		{"add item", routeRequest{method: http.MethodPost, path: "/api/cart/items", body: `{"productRef":"P001"}`, user: "u1"}, http.StatusOK},
		{"update quantity", routeRequest{method: http.MethodPatch, path: "/api/cart/items", body: `{"productRef":"P001","newQuantity":2}`, user: "u1"}, http.StatusOK},
		{"remove item", routeRequest{method: http.MethodDelete, path: "/api/cart/items/" + uuid.NewString(), user: "u1"}, http.StatusOK},
		{"apply coupon", routeRequest{method: http.MethodPost, path: "/api/cart/coupon", body: `{"couponCode":"SAVE10"}`, user: "u1"}, http.StatusOK},
		{"remove coupon", routeRequest{method: http.MethodDelete, path: "/api/cart/coupon", user: "u1"}, http.StatusOK},
		{"checkout", routeRequest{method: http.MethodPost, path: "/api/orders", body: `{}`, user: "u1"}, http.StatusCreated},
		{"list orders", routeRequest{method: http.MethodGet, path: "/api/orders", user: "u1"}, http.StatusOK},
		{"get order", routeRequest{method: http.MethodGet, path: "/api/orders/" + uuid.NewString(), user: "u1"}, http.StatusNotFound},
		{"list coupons", routeRequest{method: http.MethodGet, path: "/api/admin/coupons", admin: true}, http.StatusOK},
		{"create coupon", routeRequest{method: http.MethodPost, path: "/api/admin/coupons", body: `{"code":"new5","percent":5}`, admin: true}, http.StatusCreated},
		{"update coupon", routeRequest{method: http.MethodPut, path: "/api/admin/coupons/NEW5", body: `{"percent":5}`, admin: true}, http.StatusNotFound},
		{"delete coupon", routeRequest{method: http.MethodDelete, path: "/api/admin/coupons/NEW5", admin: true}, http.StatusNoContent},
		{"update shipping", routeRequest{method: http.MethodPut, path: "/api/admin/shipping", body: `{"fee":5,"freeOver":100}`, admin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.req)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestRouter_UserRoutesRequireIdentity(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/cart", "/api/orders"} {
		w := serve(router, routeRequest{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_AdminRoutesRequireAdminKey(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, routeRequest{method: http.MethodGet, path: "/api/admin/coupons", user: "u1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(router, routeRequest{method: http.MethodPut, path: "/api/admin/shipping", body: `{}`})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_APIKeyRequired(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
}

func TestRouter_HealthAndMetricsArePublic(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	// One routed request so the counter has a sample.
	serve(router, routeRequest{method: http.MethodGet, path: "/api/products/P001"})

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pawcart_http_requests_total{method="GET",route="GET /api/products/{id}",status="200"} 1`)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, routeRequest{method: http.MethodPost, path: "/api/products"})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
