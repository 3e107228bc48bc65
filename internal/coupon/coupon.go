package coupon

import (
	"context"

	"pawcart/internal/model"

	"github.com/shopspring/decimal"
)

// Validator defines the coupon applicability rules.
type Validator interface {
	// ValidateAndApply checks, in order and failing fast:
	// - the coupon exists and is active
	// - its percent is within (0, 100]
	// - the current time is inside its validity window
	// - the cart is not empty and meets the minimum amount
	// - the cart does not already carry the same code
	// On success it sets cart.AppliedCoupon and returns the discount amount.
	ValidateAndApply(coupon *model.Coupon, cart *model.Cart) (decimal.Decimal, error)
}

// Finder looks coupons up by their normalised code.
type Finder interface {
	// FindByCode returns nil, nil when no coupon has the code.
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
}

// Loader defines the interface for loading coupon seed files.
type Loader interface {
	// Load reads a gzipped JSON-lines coupon file.
	Load(ctx context.Context, filePath string) ([]model.Coupon, error)
}

// Store receives imported coupons.
type Store interface {
	// UpsertMany inserts or replaces coupons by code and returns how many were written.
	UpsertMany(ctx context.Context, coupons []model.Coupon) (int, error)
}
