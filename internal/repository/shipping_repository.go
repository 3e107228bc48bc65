package repository

import (
	"context"
	"fmt"

	"pawcart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// shippingSettingsID is the key of the single settings row.
const shippingSettingsID = 1

// shippingRepository implements the ShippingRepository interface using PostgreSQL.
type shippingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShippingRepository creates a new PostgreSQL-backed shipping settings repository.
func NewShippingRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShippingRepository {
	return &shippingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shipping").Logger(),
	}
}

// Load returns the stored settings, inserting defaults when the row is missing.
func (r *shippingRepository) Load(ctx context.Context, defaults model.ShippingSetting) (*model.ShippingSetting, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO shipping_settings (id, fee, free_over, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO NOTHING
	`, shippingSettingsID, defaults.Fee, defaults.FreeOver)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to initialise shipping settings")
		return nil, fmt.Errorf("failed to initialise shipping settings: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Info().Msg("default shipping settings persisted")
	}

	var s model.ShippingSetting
	err = r.pool.QueryRow(ctx,
		`SELECT fee, free_over, updated_at FROM shipping_settings WHERE id = $1`, shippingSettingsID,
	).Scan(&s.Fee, &s.FreeOver, &s.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query shipping settings")
		return nil, fmt.Errorf("failed to query shipping settings: %w", err)
	}

	return &s, nil
}

// Save replaces the stored settings.
func (r *shippingRepository) Save(ctx context.Context, setting model.ShippingSetting) (*model.ShippingSetting, error) {
	s := setting
	err := r.pool.QueryRow(ctx, `
		INSERT INTO shipping_settings (id, fee, free_over, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			fee = EXCLUDED.fee,
			free_over = EXCLUDED.free_over,
			updated_at = NOW()
		RETURNING fee, free_over, updated_at
	`, shippingSettingsID, setting.Fee, setting.FreeOver).Scan(&s.Fee, &s.FreeOver, &s.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to save shipping settings")
		return nil, fmt.Errorf("failed to save shipping settings: %w", err)
	}

	r.logger.Info().
		Str("fee", s.Fee.String()).
		Str("free_over", s.FreeOver.String()).
		Msg("shipping settings updated")

	return &s, nil
}
