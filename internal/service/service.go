package service

import (
	"context"

	"pawcart/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for browsing the catalogue.
type ProductService interface {
	// List returns a page of catalogue items, optionally in one category.
	List(ctx context.Context, filter model.ProductFilter) ([]model.CatalogItem, error)

	// GetByID returns the catalogue item for one product.
	GetByID(ctx context.Context, id string) (*model.CatalogItem, error)
}

// CartService defines the cart mutations. Every operation is scoped to the
// owner passed in and returns the cart with freshly computed totals.
type CartService interface {
	// GetCart returns the owner's cart, or an empty unsaved one.
	GetCart(ctx context.Context, owner string) (*model.Cart, error)

	// AddItem adds quantity units of a product, merging with an existing line.
	AddItem(ctx context.Context, owner, productRef string, quantity int) (*model.Cart, error)

	// RemoveItem removes a line by its ID. Unknown IDs leave the cart as is.
	RemoveItem(ctx context.Context, owner string, lineItemID uuid.UUID) (*model.Cart, error)

	// UpdateQuantity sets the quantity of the line holding productRef.
	UpdateQuantity(ctx context.Context, owner, productRef string, newQuantity int) (*model.Cart, error)

	// ClearCart empties the cart and drops its coupon.
	ClearCart(ctx context.Context, owner string) (*model.Cart, error)

	// ApplyCoupon validates a coupon code against the cart and applies it.
	ApplyCoupon(ctx context.Context, owner, code string) (*model.Cart, error)

	// RemoveCoupon drops the applied coupon, if any.
	RemoveCoupon(ctx context.Context, owner string) (*model.Cart, error)
}

// OrderService defines checkout and order history.
type OrderService interface {
	// Checkout turns the owner's cart into an order. A non-empty
	// idempotencyKey returns the order already placed under it.
	Checkout(ctx context.Context, owner string, req *model.CheckoutRequest, idempotencyKey string) (*model.Order, error)

	// GetByID retrieves one of the owner's orders.
	GetByID(ctx context.Context, owner string, id uuid.UUID) (*model.Order, error)

	// List returns the owner's orders, newest first.
	List(ctx context.Context, owner string, limit, offset int) ([]model.Order, error)
}

// CouponService defines coupon administration.
type CouponService interface {
	List(ctx context.Context) ([]model.Coupon, error)
	Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error)
	Update(ctx context.Context, code string, req *model.CouponRequest) (*model.Coupon, error)
	Delete(ctx context.Context, code string) error
}

// ShippingService serves the shop-wide shipping settings.
type ShippingService interface {
	// Load returns the current settings, creating the default row on first use.
	Load(ctx context.Context) (model.ShippingSetting, error)

	// Update replaces the settings.
	Update(ctx context.Context, req *model.ShippingSettingRequest) (*model.ShippingSetting, error)
}
