package repository

import (
	"context"
	"errors"
	"fmt"

	"pawcart/internal/database"
	"pawcart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const couponColumns = `code, percent, min_amount, valid_from, valid_until, status, created_at, updated_at`

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

func scanCoupon(row pgx.Row, c *model.Coupon) error {
	return row.Scan(&c.Code, &c.Percent, &c.MinAmount, &c.ValidFrom, &c.ValidUntil, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

// FindByCode returns nil, nil when no coupon has the code.
func (r *couponRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	var c model.Coupon
	if err := scanCoupon(r.pool.QueryRow(ctx, query, code), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("coupon_code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &c, nil
}

// List returns every coupon ordered by code.
func (r *couponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		var c model.Coupon
		if err := scanCoupon(rows, &c); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan coupon row")
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

// Create inserts a coupon.
func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (code, percent, min_amount, valid_from, valid_until, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		coupon.Code, coupon.Percent, coupon.MinAmount, coupon.ValidFrom, coupon.ValidUntil, coupon.Status,
	).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrCouponExists
		}
		r.logger.Error().Err(err).Str("coupon_code", coupon.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Info().Str("coupon_code", coupon.Code).Msg("coupon created")
	return nil
}

// Update replaces a coupon's definition.
func (r *couponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `
		UPDATE coupons SET
			percent = $2,
			min_amount = $3,
			valid_from = $4,
			valid_until = $5,
			status = $6,
			updated_at = NOW()
		WHERE code = $1
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		coupon.Code, coupon.Percent, coupon.MinAmount, coupon.ValidFrom, coupon.ValidUntil, coupon.Status,
	).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCouponNotFound
		}
		r.logger.Error().Err(err).Str("coupon_code", coupon.Code).Msg("failed to update coupon")
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	r.logger.Info().Str("coupon_code", coupon.Code).Msg("coupon updated")
	return nil
}

// Delete removes a coupon.
func (r *couponRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE code = $1`, code)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to delete coupon")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	r.logger.Info().Str("coupon_code", code).Msg("coupon deleted")
	return nil
}

// UpsertMany inserts or replaces coupons by code in a single batch.
func (r *couponRepository) UpsertMany(ctx context.Context, coupons []model.Coupon) (int, error) {
	if len(coupons) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO coupons (code, percent, min_amount, valid_from, valid_until, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (code) DO UPDATE SET
			percent = EXCLUDED.percent,
			min_amount = EXCLUDED.min_amount,
			valid_from = EXCLUDED.valid_from,
			valid_until = EXCLUDED.valid_until,
			status = EXCLUDED.status,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, c := range coupons {
		batch.Queue(query, c.Code, c.Percent, c.MinAmount, c.ValidFrom, c.ValidUntil, c.Status)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for i := range coupons {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().Err(err).Str("coupon_code", coupons[i].Code).Msg("failed to upsert coupon")
			return written, fmt.Errorf("failed to upsert coupon %s: %w", coupons[i].Code, err)
		}
		written += int(tag.RowsAffected())
	}

	r.logger.Info().Int("count", written).Msg("coupons upserted")
	return written, nil
}
