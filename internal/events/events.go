// Package events publishes domain events to the order stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pawcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// OrderPlacedType is the event type header value.
const OrderPlacedType = "order.placed"

// OrderPlaced is the payload published after a checkout commits.
type OrderPlaced struct {
	EventID          uuid.UUID         `json:"eventId"`
	Type             string            `json:"type"`
	OrderID          uuid.UUID         `json:"orderId"`
	Owner            string            `json:"owner"`
	Items            []OrderPlacedItem `json:"items"`
	CouponCode       *string           `json:"couponCode,omitempty"`
	SubTotal         decimal.Decimal   `json:"subTotal"`
	DiscountAmount   decimal.Decimal   `json:"discountAmount"`
	ShippingFee      decimal.Decimal   `json:"shippingFee"`
	TotalAmount      decimal.Decimal   `json:"totalAmount"`
	PaymentMethod    string            `json:"paymentMethod"`
	PaymentReference string            `json:"paymentReference"`
	OccurredAt       time.Time         `json:"occurredAt"`
}

// OrderPlacedItem is one line of an OrderPlaced event.
type OrderPlacedItem struct {
	ProductRef string          `json:"productRef"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

// NewOrderPlaced builds the event for a committed order.
func NewOrderPlaced(order *model.Order) OrderPlaced {
	items := make([]OrderPlacedItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderPlacedItem{
			ProductRef: item.ProductRef,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	return OrderPlaced{
		EventID:          uuid.New(),
		Type:             OrderPlacedType,
		OrderID:          order.ID,
		Owner:            order.Owner,
		Items:            items,
		CouponCode:       order.CouponCode,
		SubTotal:         order.SubTotal,
		DiscountAmount:   order.DiscountAmount,
		ShippingFee:      order.ShippingFee,
		TotalAmount:      order.TotalAmount,
		PaymentMethod:    order.PaymentMethod,
		PaymentReference: order.PaymentReference,
		OccurredAt:       order.CreatedAt,
	}
}

// Publisher sends order events downstream.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by order ID.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "kafka-publisher").Logger(),
	}
}

// PublishOrderPlaced implements Publisher.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: data,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("order_id", event.OrderID.String()).Msg("failed to publish order event")
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().Str("order_id", event.OrderID.String()).Msg("order event published")
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher logs events instead of sending them. It is used when no
// brokers are configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "log-publisher").Logger()}
}

// PublishOrderPlaced implements Publisher.
func (p *LogPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	p.logger.Info().
		Str("event_id", event.EventID.String()).
		Str("order_id", event.OrderID.String()).
		Str("owner", event.Owner).
		Str("total_amount", event.TotalAmount.String()).
		Msg("order placed")
	return nil
}

// Close implements Publisher.
func (p *LogPublisher) Close() error {
	return nil
}
