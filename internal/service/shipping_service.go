package service

import (
	"context"
	"fmt"
	"time"

	"pawcart/internal/model"
	"pawcart/internal/repository"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

const shippingCacheKey = "settings"

// shippingService implements ShippingService with a short-lived cache in
// front of the singleton row.
type shippingService struct {
	repo   repository.ShippingRepository
	cache  *expirable.LRU[string, model.ShippingSetting]
	logger zerolog.Logger
}

// NewShippingService creates a shipping service. A ttl of zero or less
// disables caching.
func NewShippingService(repo repository.ShippingRepository, ttl time.Duration, logger zerolog.Logger) ShippingService {
	s := &shippingService{
		repo:   repo,
		logger: logger.With().Str("service", "shipping").Logger(),
	}
	if ttl > 0 {
		s.cache = expirable.NewLRU[string, model.ShippingSetting](1, nil, ttl)
	}
	return s
}

// Load returns the current settings, creating the default row on first use.
func (s *shippingService) Load(ctx context.Context) (model.ShippingSetting, error) {
	if s.cache != nil {
		if setting, ok := s.cache.Get(shippingCacheKey); ok {
			return setting, nil
		}
	}

	setting, err := s.repo.Load(ctx, model.DefaultShippingSetting())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load shipping settings")
		return model.ShippingSetting{}, fmt.Errorf("failed to load shipping settings: %w", err)
	}

	if s.cache != nil {
		s.cache.Add(shippingCacheKey, *setting)
	}
	return *setting, nil
}

// Update replaces the settings.
func (s *shippingService) Update(ctx context.Context, req *model.ShippingSettingRequest) (*model.ShippingSetting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setting, err := s.repo.Save(ctx, model.ShippingSetting{Fee: req.Fee, FreeOver: req.FreeOver})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to save shipping settings")
		return nil, fmt.Errorf("failed to save shipping settings: %w", err)
	}

	if s.cache != nil {
		s.cache.Add(shippingCacheKey, *setting)
	}

	s.logger.Info().
		Str("fee", setting.Fee.String()).
		Str("free_over", setting.FreeOver.String()).
		Msg("shipping settings updated")

	return setting, nil
}
