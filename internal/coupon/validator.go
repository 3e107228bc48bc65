package coupon

import (
	"time"

	"pawcart/internal/model"
	"pawcart/internal/pricing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// validator implements Validator against a clock.
type validator struct {
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures the validator.
type Option func(*validator)

// WithClock replaces time.Now as the validator's source of the current time.
func WithClock(now func() time.Time) Option {
	return func(v *validator) {
		v.now = now
	}
}

// NewValidator creates a new coupon validator.
func NewValidator(logger zerolog.Logger, opts ...Option) Validator {
	v := &validator{
		now:    time.Now,
		logger: logger.With().Str("component", "coupon-validator").Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateAndApply checks the coupon against the cart and applies it.
func (v *validator) ValidateAndApply(coupon *model.Coupon, cart *model.Cart) (decimal.Decimal, error) {
	if coupon == nil || !coupon.Status {
		return decimal.Zero, model.ErrInvalidOrExpiredCoupon
	}

	log := v.logger.With().
		Str("coupon_code", coupon.Code).
		Str("owner", cart.Owner).
		Logger()

	if coupon.Percent <= 0 || coupon.Percent > 100 {
		log.Warn().Int("percent", coupon.Percent).Msg("coupon percent out of range")
		return decimal.Zero, model.ErrInvalidCouponPercent
	}

	now := v.now()
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		log.Debug().Time("valid_from", *coupon.ValidFrom).Msg("coupon not yet active")
		return decimal.Zero, model.ErrCouponNotYetActive
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		log.Debug().Time("valid_until", *coupon.ValidUntil).Msg("coupon expired")
		return decimal.Zero, model.ErrCouponExpired
	}

	if cart.IsEmpty() {
		return decimal.Zero, model.ErrCartEmpty
	}

	subtotal := pricing.Subtotal(cart.PricingLines())
	if subtotal.LessThan(coupon.MinAmount) {
		log.Debug().
			Str("subtotal", subtotal.String()).
			Str("min_amount", coupon.MinAmount.String()).
			Msg("cart below coupon minimum")
		return decimal.Zero, model.ErrMinimumAmountNotMet
	}

	if cart.AppliedCoupon != nil && cart.AppliedCoupon.Code == coupon.Code {
		return decimal.Zero, model.ErrCouponAlreadyApplied
	}

	discount := pricing.PercentDiscount(subtotal, coupon.Percent)

	if cart.AppliedCoupon != nil {
		log.Info().
			Str("replaced_code", cart.AppliedCoupon.Code).
			Msg("replacing previously applied coupon")
	}

	cart.AppliedCoupon = &model.AppliedCoupon{
		Code:           coupon.Code,
		Percent:        coupon.Percent,
		DiscountAmount: discount,
	}

	log.Debug().Str("discount", discount.String()).Msg("coupon applied")

	return discount, nil
}
