package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Supported payment methods.
const (
	PaymentMethodCOD  = "cod"
	PaymentMethodCard = "card"
)

// ValidPaymentMethod reports whether method is supported.
func ValidPaymentMethod(method string) bool {
	return method == PaymentMethodCOD || method == PaymentMethodCard
}

// ShippingAddress is the delivery address captured at checkout.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// MissingFields returns the JSON names of required fields that are blank.
func (a ShippingAddress) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"phone", a.Phone},
		{"line1", a.Line1},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Order is the immutable record created at checkout from the cart's final
// computed state.
type Order struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Owner            string          `json:"owner" db:"owner"`
	Status           OrderStatus     `json:"status" db:"status"`
	Items            []OrderItem     `json:"items"`
	ShippingAddress  ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod    string          `json:"paymentMethod" db:"payment_method"`
	PaymentReference string          `json:"paymentReference,omitempty" db:"payment_reference"`
	CouponCode       *string         `json:"couponCode,omitempty" db:"coupon_code"`
	SubTotal         decimal.Decimal `json:"subTotal" db:"sub_total"`
	DiscountAmount   decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	ShippingFee      decimal.Decimal `json:"shippingFee" db:"shipping_fee"`
	TotalAmount      decimal.Decimal `json:"totalAmount" db:"total_amount"`
	IdempotencyKey   *string         `json:"-" db:"idempotency_key"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID         uuid.UUID       `json:"-" db:"id"`
	OrderID    uuid.UUID       `json:"-" db:"order_id"`
	ProductRef string          `json:"productRef" db:"product_ref"`
	Name       string          `json:"name" db:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity   int             `json:"quantity" db:"quantity"`
	LineTotal  decimal.Decimal `json:"lineTotal" db:"line_total"`
}

// CheckoutRequest represents the request payload for placing an order.
// ClientTotal is informational only and never used for pricing.
type CheckoutRequest struct {
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	ClientTotal     *decimal.Decimal `json:"clientTotal,omitempty"`
}
