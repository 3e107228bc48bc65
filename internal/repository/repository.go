package repository

import (
	"context"
	"errors"

	"pawcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrVersionConflict is returned by CartRepository.Save when the stored cart
// no longer has the version the caller read.
var ErrVersionConflict = errors.New("cart version conflict")

// querier is the subset of pgxpool.Pool and pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List returns one page of products ordered by name, restricted to
	// filter.Category when it is set.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns nil, nil when the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Upsert inserts or replaces catalogue rows by ID.
	Upsert(ctx context.Context, products []model.Product) error
}

// CartRepository defines the interface for cart persistence.
type CartRepository interface {
	// GetByOwner returns the owner's cart, or nil, nil when none exists.
	GetByOwner(ctx context.Context, owner string) (*model.Cart, error)

	// Save recalculates the cart and persists it if its version still matches
	// the stored one. New carts (version 0) are inserted. On success the
	// cart's version is advanced; otherwise ErrVersionConflict is returned.
	Save(ctx context.Context, cart *model.Cart) error

	// SaveTx is Save within the provided transaction.
	SaveTx(ctx context.Context, tx pgx.Tx, cart *model.Cart) error
}

// CouponRepository defines the interface for coupon persistence.
type CouponRepository interface {
	// FindByCode returns nil, nil when no coupon has the code.
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)

	// List returns every coupon ordered by code.
	List(ctx context.Context) ([]model.Coupon, error)

	// Create inserts a coupon; model.ErrCouponExists when the code is taken.
	Create(ctx context.Context, coupon *model.Coupon) error

	// Update replaces a coupon; model.ErrCouponNotFound when it does not exist.
	Update(ctx context.Context, coupon *model.Coupon) error

	// Delete removes a coupon; model.ErrCouponNotFound when it does not exist.
	Delete(ctx context.Context, code string) error

	// UpsertMany inserts or replaces coupons by code.
	UpsertMany(ctx context.Context, coupons []model.Coupon) (int, error)
}

// ShippingRepository defines the interface for the singleton shipping settings row.
type ShippingRepository interface {
	// Load returns the stored settings, persisting defaults first when the row
	// does not exist yet.
	Load(ctx context.Context, defaults model.ShippingSetting) (*model.ShippingSetting, error)

	// Save replaces the stored settings.
	Save(ctx context.Context, setting model.ShippingSetting) (*model.ShippingSetting, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves the owner's order with its items, or nil, nil.
	GetByID(ctx context.Context, owner string, id uuid.UUID) (*model.Order, error)

	// ListByOwner returns the owner's orders, newest first, with their items.
	ListByOwner(ctx context.Context, owner string, limit, offset int) ([]model.Order, error)

	// FindByIdempotencyKey returns the owner's order placed under key, or nil, nil.
	FindByIdempotencyKey(ctx context.Context, owner, key string) (*model.Order, error)
}
