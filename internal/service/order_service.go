package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pawcart/internal/database"
	"pawcart/internal/events"
	"pawcart/internal/metrics"
	"pawcart/internal/model"
	"pawcart/internal/payment"
	"pawcart/internal/pricing"
	"pawcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	shipping  ShippingService
	gateway   payment.Gateway
	publisher events.Publisher
	metrics   *metrics.Metrics
	currency  string
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	shipping ShippingService,
	gateway payment.Gateway,
	publisher events.Publisher,
	m *metrics.Metrics,
	currency string,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		shipping:  shipping,
		gateway:   gateway,
		publisher: publisher,
		metrics:   m,
		currency:  currency,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Checkout turns the owner's cart into an order. Totals are always derived
// from the stored cart and the current shipping settings.
func (s *orderService) Checkout(ctx context.Context, owner string, req *model.CheckoutRequest, idempotencyKey string) (*model.Order, error) {
	order, err := s.checkout(ctx, owner, req, strings.TrimSpace(idempotencyKey))

	result := "ok"
	if err != nil {
		result = errorCode(err)
		if result == "" {
			result = "error"
		}
	}
	s.metrics.Checkout(result)

	return order, err
}

func (s *orderService) checkout(ctx context.Context, owner string, req *model.CheckoutRequest, key string) (*model.Order, error) {
	log := s.logger.With().Str("owner", owner).Logger()

	if key != "" {
		existing, err := s.orderRepo.FindByIdempotencyKey(ctx, owner, key)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if existing != nil {
			log.Info().Str("order_id", existing.ID.String()).Msg("returning order placed under the same idempotency key")
			return existing, nil
		}
	}

	cart, err := s.cartRepo.GetByOwner(ctx, owner)
	if err != nil {
		log.Error().Err(err).Msg("failed to load cart for checkout")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || cart.IsEmpty() {
		return nil, model.ErrEmptyCart
	}

	if err := validateCheckoutRequest(req); err != nil {
		log.Warn().Err(err).Msg("checkout request rejected")
		return nil, err
	}
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))

	settings, err := s.shipping.Load(ctx)
	if err != nil {
		return nil, err
	}
	cart.ApplyShipping(settings)
	total := pricing.Reconcile(cart.SubTotal, cart.DiscountAmount, cart.ShippingFee)

	if req.ClientTotal != nil && !req.ClientTotal.Equal(total) {
		log.Warn().
			Str("client_total", req.ClientTotal.String()).
			Str("server_total", total.String()).
			Msg("client total does not match, using server total")
	}

	order := newOrder(cart, req, method, total)
	if key != "" {
		order.IdempotencyKey = &key
	}

	auth, err := s.gateway.Authorize(ctx, payment.Request{
		OrderID:     order.ID,
		AmountCents: pricing.ToMinorUnits(total),
		Currency:    s.currency,
		Method:      method,
	})
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			log.Warn().Str("order_id", order.ID.String()).Msg("payment declined")
			return nil, model.ErrPaymentDeclined
		}
		log.Error().Err(err).Str("order_id", order.ID.String()).Msg("payment authorization failed")
		return nil, fmt.Errorf("failed to authorize payment: %w", err)
	}
	order.PaymentReference = auth.Reference
	if auth.Status == payment.StatusAuthorized {
		order.Status = model.OrderStatusPaid
	}

	cleared := cart.Clone()
	cleared.Clear()
	cleared.ApplyShipping(settings)

	if err := s.placeOrder(ctx, order, cleared); err != nil {
		if voidErr := s.gateway.Void(ctx, auth.Reference); voidErr != nil {
			log.Error().Err(voidErr).Str("reference", auth.Reference).Msg("failed to void payment")
		}

		if errors.Is(err, repository.ErrVersionConflict) {
			log.Warn().Str("order_id", order.ID.String()).Msg("cart changed during checkout")
			return nil, model.ErrConcurrentModification
		}
		if key != "" && database.IsUniqueViolation(err) {
			existing, findErr := s.orderRepo.FindByIdempotencyKey(ctx, owner, key)
			if findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order)); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order placed event")
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Str("total_amount", order.TotalAmount.String()).
		Msg("order placed successfully")

	return order, nil
}

// placeOrder writes the order, its items and the emptied cart in one
// transaction.
func (s *orderService) placeOrder(ctx context.Context, order *model.Order, cleared *model.Cart) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = s.cartRepo.SaveTx(ctx, tx, cleared); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves one of the owner's orders.
func (s *orderService) GetByID(ctx context.Context, owner string, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, owner, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// List returns the owner's orders, newest first.
func (s *orderService) List(ctx context.Context, owner string, limit, offset int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.ListByOwner(ctx, owner, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// validateCheckoutRequest validates the checkout request.
func validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return model.ErrMissingAddressFields
	}

	if missing := req.ShippingAddress.MissingFields(); len(missing) > 0 {
		return model.NewDomainError(model.ErrCodeMissingAddressFields,
			fmt.Sprintf("Shipping address is incomplete: missing %s", strings.Join(missing, ", ")))
	}

	if !model.ValidPaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))) {
		return model.ErrInvalidPaymentMethod
	}

	return nil
}

// newOrder snapshots the priced cart into a pending order.
func newOrder(cart *model.Cart, req *model.CheckoutRequest, method string, total decimal.Decimal) *model.Order {
	now := time.Now().UTC()
	order := &model.Order{
		ID:              uuid.New(),
		Owner:           cart.Owner,
		Status:          model.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   method,
		SubTotal:        cart.SubTotal,
		DiscountAmount:  cart.DiscountAmount,
		ShippingFee:     cart.ShippingFee,
		TotalAmount:     total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if cart.AppliedCoupon != nil {
		code := cart.AppliedCoupon.Code
		order.CouponCode = &code
	}

	order.Items = make([]model.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		order.Items[i] = model.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductRef: item.ProductRef,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal(),
		}
	}

	return order
}
