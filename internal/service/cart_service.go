package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pawcart/internal/coupon"
	"pawcart/internal/database"
	"pawcart/internal/metrics"
	"pawcart/internal/model"
	"pawcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// errNoChange tells mutate that the operation left the cart untouched and
// nothing needs saving.
var errNoChange = errors.New("cart unchanged")

// CartOptions tunes the optimistic retry loop.
type CartOptions struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	coupons     coupon.Finder
	validator   coupon.Validator
	shipping    ShippingService
	metrics     *metrics.Metrics
	opts        CartOptions
	logger      zerolog.Logger
}

// NewCartService creates a new cart service. m may be nil.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	coupons coupon.Finder,
	validator coupon.Validator,
	shipping ShippingService,
	m *metrics.Metrics,
	opts CartOptions,
	logger zerolog.Logger,
) CartService {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		coupons:     coupons,
		validator:   validator,
		shipping:    shipping,
		metrics:     m,
		opts:        opts,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the owner's cart, or an empty unsaved one.
func (s *cartService) GetCart(ctx context.Context, owner string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByOwner(ctx, owner)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		cart = model.NewCart(owner)
	}

	if err := s.price(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity units of a product, merging with an existing line.
func (s *cartService) AddItem(ctx context.Context, owner, productRef string, quantity int) (*model.Cart, error) {
	productRef = strings.TrimSpace(productRef)
	if !model.ValidQuantity(quantity) {
		return nil, s.record("add_item", model.ErrInvalidQuantity)
	}

	product, err := s.productRepo.GetByID(ctx, productRef)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productRef).Msg("failed to look up product")
		return nil, s.record("add_item", fmt.Errorf("failed to look up product: %w", err))
	}
	if product == nil {
		return nil, s.record("add_item", model.ErrProductNotFound)
	}
	snapshot := product.Snapshot()

	cart, err := s.mutate(ctx, owner, false, func(cart *model.Cart) error {
		if item := cart.FindByProduct(product.ID); item != nil && !model.ValidQuantity(item.Quantity+quantity) {
			return model.ErrInvalidQuantity
		}
		cart.AddProduct(product.ID, snapshot, quantity)
		return nil
	})
	if err == nil {
		s.logger.Debug().
			Str("owner", owner).
			Str("product_id", product.ID).
			Int("quantity", quantity).
			Msg("item added to cart")
	}
	return cart, s.record("add_item", err)
}

// RemoveItem removes a line by its ID. Unknown IDs leave the cart as is.
func (s *cartService) RemoveItem(ctx context.Context, owner string, lineItemID uuid.UUID) (*model.Cart, error) {
	cart, err := s.mutate(ctx, owner, true, func(cart *model.Cart) error {
		if !cart.RemoveLine(lineItemID) {
			return errNoChange
		}
		return nil
	})
	return cart, s.record("remove_item", err)
}

// UpdateQuantity sets the quantity of the line holding productRef.
func (s *cartService) UpdateQuantity(ctx context.Context, owner, productRef string, newQuantity int) (*model.Cart, error) {
	if !model.ValidQuantity(newQuantity) {
		return nil, s.record("update_quantity", model.ErrInvalidQuantity)
	}
	productRef = strings.TrimSpace(productRef)

	cart, err := s.mutate(ctx, owner, true, func(cart *model.Cart) error {
		item := cart.FindByProduct(productRef)
		if item == nil {
			return model.ErrProductNotInCart
		}
		if item.Quantity == newQuantity {
			return errNoChange
		}
		item.Quantity = newQuantity
		return nil
	})
	return cart, s.record("update_quantity", err)
}

// ClearCart empties the cart and drops its coupon.
func (s *cartService) ClearCart(ctx context.Context, owner string) (*model.Cart, error) {
	cart, err := s.mutate(ctx, owner, true, func(cart *model.Cart) error {
		if cart.IsEmpty() && cart.AppliedCoupon == nil {
			return errNoChange
		}
		cart.Clear()
		return nil
	})
	return cart, s.record("clear", err)
}

// ApplyCoupon validates a coupon code against the cart and applies it.
func (s *cartService) ApplyCoupon(ctx context.Context, owner, code string) (*model.Cart, error) {
	code = model.NormalizeCouponCode(code)

	var found *model.Coupon
	if code != "" {
		c, err := s.coupons.FindByCode(ctx, code)
		if err != nil {
			s.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to look up coupon")
			return nil, s.record("apply_coupon", fmt.Errorf("failed to look up coupon: %w", err))
		}
		found = c
	}

	cart, err := s.mutate(ctx, owner, false, func(cart *model.Cart) error {
		_, err := s.validator.ValidateAndApply(found, cart)
		return err
	})

	result := "ok"
	if c := errorCode(err); c != "" {
		result = c
	} else if err != nil {
		result = "error"
	}
	s.metrics.CouponApplied(result)

	if err == nil {
		s.logger.Info().
			Str("owner", owner).
			Str("coupon_code", code).
			Str("discount", cart.DiscountAmount.String()).
			Msg("coupon applied")
	}
	return cart, s.record("apply_coupon", err)
}

// RemoveCoupon drops the applied coupon, if any.
func (s *cartService) RemoveCoupon(ctx context.Context, owner string) (*model.Cart, error) {
	cart, err := s.mutate(ctx, owner, true, func(cart *model.Cart) error {
		if cart.AppliedCoupon == nil {
			return errNoChange
		}
		cart.AppliedCoupon = nil
		return nil
	})
	return cart, s.record("remove_coupon", err)
}

// mutate runs a read-modify-write cycle against the owner's cart. The cart
// is reloaded and fn re-applied whenever the save loses a version race, up
// to MaxRetries attempts.
func (s *cartService) mutate(ctx context.Context, owner string, requireCart bool, fn func(*model.Cart) error) (*model.Cart, error) {
	log := s.logger.With().Str("owner", owner).Logger()

	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		cart, err := s.cartRepo.GetByOwner(ctx, owner)
		if err != nil {
			log.Error().Err(err).Msg("failed to load cart")
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}
		if cart == nil {
			if requireCart {
				return nil, model.ErrCartNotFound
			}
			cart = model.NewCart(owner)
		}

		if err := fn(cart); err != nil {
			if errors.Is(err, errNoChange) {
				if err := s.price(ctx, cart); err != nil {
					return nil, err
				}
				return cart, nil
			}
			return nil, err
		}

		if err := s.price(ctx, cart); err != nil {
			return nil, err
		}

		err = s.cartRepo.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, repository.ErrVersionConflict) && !database.IsRetryable(err) {
			log.Error().Err(err).Msg("failed to save cart")
			return nil, fmt.Errorf("failed to save cart: %w", err)
		}

		s.metrics.CartConflict()
		delay := database.Backoff(attempt, s.opts.RetryBaseDelay)
		log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("cart write conflict, retrying")

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	log.Warn().Int("attempts", s.opts.MaxRetries).Msg("giving up on contended cart")
	return nil, model.ErrConcurrentModification
}

// price applies the current shipping settings and recomputes the totals.
func (s *cartService) price(ctx context.Context, cart *model.Cart) error {
	settings, err := s.shipping.Load(ctx)
	if err != nil {
		return err
	}
	cart.ApplyShipping(settings)
	return nil
}

// record counts the outcome of operation and passes err through.
func (s *cartService) record(operation string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = errorCode(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	s.metrics.CartMutation(operation, outcome)
	return err
}

// errorCode returns the domain error code carried by err, if any.
func errorCode(err error) string {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
