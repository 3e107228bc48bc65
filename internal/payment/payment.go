// Package payment defines the contract with the external payment gateway.
package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status is the state of an authorization returned by the gateway.
type Status string

const (
	StatusAuthorized Status = "authorized"
	StatusPending    Status = "pending"
	StatusDeclined   Status = "declined"
)

// ErrDeclined is returned by a gateway that refuses the payment.
var ErrDeclined = errors.New("payment declined")

// Request describes the amount to authorize for an order, in minor units.
type Request struct {
	OrderID     uuid.UUID
	AmountCents int64
	Currency    string
	Method      string
}

// Authorization is the gateway's answer to a Request.
type Authorization struct {
	Reference string
	Status    Status
}

// Gateway authorizes and voids payments.
type Gateway interface {
	// Authorize reserves the amount. A declined payment returns ErrDeclined.
	Authorize(ctx context.Context, req Request) (Authorization, error)

	// Void releases an authorization that will not be captured.
	Void(ctx context.Context, reference string) error
}

// deferredGateway records the intent to pay and leaves settlement to the
// fulfilment side (cash on delivery, or card capture at dispatch).
type deferredGateway struct {
	logger zerolog.Logger
}

// NewDeferredGateway returns a Gateway that accepts every request as pending.
func NewDeferredGateway(logger zerolog.Logger) Gateway {
	return &deferredGateway{
		logger: logger.With().Str("component", "payment-gateway").Logger(),
	}
}

// Authorize implements Gateway.
func (g *deferredGateway) Authorize(ctx context.Context, req Request) (Authorization, error) {
	if req.AmountCents < 0 {
		return Authorization{Status: StatusDeclined}, ErrDeclined
	}

	auth := Authorization{
		Reference: "pay_" + uuid.NewString(),
		Status:    StatusPending,
	}

	g.logger.Info().
		Str("order_id", req.OrderID.String()).
		Int64("amount_cents", req.AmountCents).
		Str("currency", req.Currency).
		Str("method", req.Method).
		Str("reference", auth.Reference).
		Msg("payment recorded for deferred settlement")

	return auth, nil
}

// Void implements Gateway.
func (g *deferredGateway) Void(ctx context.Context, reference string) error {
	g.logger.Info().Str("reference", reference).Msg("payment voided")
	return nil
}
