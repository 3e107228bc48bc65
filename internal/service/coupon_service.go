package service

import (
	"context"
	"errors"
	"fmt"

	"pawcart/internal/model"
	"pawcart/internal/repository"

	"github.com/rs/zerolog"
)

// couponInvalidator is implemented by coupon caches that must drop an entry
// after an admin write.
type couponInvalidator interface {
	Invalidate(code string)
}

// couponService implements CouponService.
type couponService struct {
	repo        repository.CouponRepository
	invalidator couponInvalidator
	logger      zerolog.Logger
}

// NewCouponService creates a coupon admin service. invalidator may be nil.
func NewCouponService(repo repository.CouponRepository, invalidator couponInvalidator, logger zerolog.Logger) CouponService {
	return &couponService{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger.With().Str("service", "coupon").Logger(),
	}
}

// List returns every coupon.
func (s *couponService) List(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list coupons")
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// Create validates and stores a new coupon.
func (s *couponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	coupon, err := req.ToCoupon()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, model.ErrCouponExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("coupon_code", coupon.Code).Msg("failed to create coupon")
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.invalidate(coupon.Code)
	s.logger.Info().Str("coupon_code", coupon.Code).Int("percent", coupon.Percent).Msg("coupon created")
	return coupon, nil
}

// Update replaces the coupon stored under code. The code in the path wins
// over any code in the body.
func (s *couponService) Update(ctx context.Context, code string, req *model.CouponRequest) (*model.Coupon, error) {
	body := *req
	body.Code = code

	coupon, err := body.ToCoupon()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		if errors.Is(err, model.ErrCouponNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("coupon_code", coupon.Code).Msg("failed to update coupon")
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	s.invalidate(coupon.Code)
	s.logger.Info().Str("coupon_code", coupon.Code).Msg("coupon updated")
	return coupon, nil
}

// Delete removes the coupon stored under code.
func (s *couponService) Delete(ctx context.Context, code string) error {
	code = model.NormalizeCouponCode(code)
	if code == "" {
		return model.ErrCouponNotFound
	}

	if err := s.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, model.ErrCouponNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to delete coupon")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	s.invalidate(code)
	s.logger.Info().Str("coupon_code", code).Msg("coupon deleted")
	return nil
}

func (s *couponService) invalidate(code string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(code)
	}
}
