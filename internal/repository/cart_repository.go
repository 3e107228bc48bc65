package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pawcart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
// Line items are stored as a JSONB array on the cart row.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByOwner returns the owner's cart, or nil, nil when none exists.
func (r *cartRepository) GetByOwner(ctx context.Context, owner string) (*model.Cart, error) {
	query := `
		SELECT owner, items, coupon_code, coupon_percent, coupon_discount,
		       shipping_fee, total_items, sub_total, discount_amount, total_amount,
		       version, created_at, updated_at
		FROM carts
		WHERE owner = $1
	`

	var (
		cart           model.Cart
		items          []byte
		couponCode     *string
		couponPercent  *int
		couponDiscount decimal.NullDecimal
	)
	err := r.pool.QueryRow(ctx, query, owner).Scan(
		&cart.Owner,
		&items,
		&couponCode,
		&couponPercent,
		&couponDiscount,
		&cart.ShippingFee,
		&cart.TotalItems,
		&cart.SubTotal,
		&cart.DiscountAmount,
		&cart.TotalAmount,
		&cart.Version,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("owner", owner).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	if err := json.Unmarshal(items, &cart.Items); err != nil {
		r.logger.Error().Err(err).Str("owner", owner).Msg("failed to decode cart items")
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartLineItem{}
	}

	if couponCode != nil && couponPercent != nil {
		cart.AppliedCoupon = &model.AppliedCoupon{
			Code:           *couponCode,
			Percent:        *couponPercent,
			DiscountAmount: couponDiscount.Decimal,
		}
	}

	return &cart, nil
}

// Save persists the cart with an optimistic version check.
func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	return r.save(ctx, r.pool, cart)
}

// SaveTx is Save within the provided transaction.
func (r *cartRepository) SaveTx(ctx context.Context, tx pgx.Tx, cart *model.Cart) error {
	return r.save(ctx, tx, cart)
}

func (r *cartRepository) save(ctx context.Context, q querier, cart *model.Cart) error {
	cart.Recalculate()

	items, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	var (
		couponCode     *string
		couponPercent  *int
		couponDiscount decimal.NullDecimal
	)
	if c := cart.AppliedCoupon; c != nil {
		couponCode = &c.Code
		couponPercent = &c.Percent
		couponDiscount = decimal.NewNullDecimal(c.DiscountAmount)
	}

	args := []any{
		cart.Owner,
		items,
		couponCode,
		couponPercent,
		couponDiscount,
		cart.ShippingFee,
		cart.TotalItems,
		cart.SubTotal,
		cart.DiscountAmount,
		cart.TotalAmount,
	}

	var (
		version   int64
		createdAt time.Time
		updatedAt time.Time
	)

	if cart.Version == 0 {
		query := `
			INSERT INTO carts (owner, items, coupon_code, coupon_percent, coupon_discount,
			                   shipping_fee, total_items, sub_total, discount_amount, total_amount,
			                   version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, NOW(), NOW())
			ON CONFLICT (owner) DO NOTHING
			RETURNING version, created_at, updated_at
		`
		err = q.QueryRow(ctx, query, args...).Scan(&version, &createdAt, &updatedAt)
	} else {
		query := `
			UPDATE carts SET
				items = $2,
				coupon_code = $3,
				coupon_percent = $4,
				coupon_discount = $5,
				shipping_fee = $6,
				total_items = $7,
				sub_total = $8,
				discount_amount = $9,
				total_amount = $10,
				version = version + 1,
				updated_at = NOW()
			WHERE owner = $1 AND version = $11
			RETURNING version, created_at, updated_at
		`
		err = q.QueryRow(ctx, query, append(args, cart.Version)...).Scan(&version, &createdAt, &updatedAt)
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().
				Str("owner", cart.Owner).
				Int64("version", cart.Version).
				Msg("cart version conflict")
			return ErrVersionConflict
		}
		r.logger.Error().Err(err).Str("owner", cart.Owner).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	cart.Version = version
	cart.CreatedAt = createdAt
	cart.UpdatedAt = updatedAt

	r.logger.Debug().
		Str("owner", cart.Owner).
		Int64("version", version).
		Int("total_items", cart.TotalItems).
		Msg("cart saved")

	return nil
}
