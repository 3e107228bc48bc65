package model

import (
	"time"

	"pawcart/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 10_000

// ValidQuantity reports whether n is an acceptable line quantity.
func ValidQuantity(n int) bool {
	return n > 0 && n <= MaxLineQuantity
}

// ProductSnapshot is the product data copied into a cart line when it is
// added. It is never refreshed from the catalogue.
type ProductSnapshot struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
	Slug  string          `json:"slug,omitempty"`
}

// CartLineItem is one product entry in a cart.
type CartLineItem struct {
	ID         uuid.UUID `json:"id"`
	ProductRef string    `json:"productRef"`
	ProductSnapshot
	Quantity int `json:"quantity"`
}

// LineTotal returns the snapshot price multiplied by the quantity.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return pricing.LineTotal(i.Price, i.Quantity)
}

// AppliedCoupon is the coupon state copied onto the cart when a coupon is
// applied. It is not a live reference to the coupon record.
type AppliedCoupon struct {
	Code           string          `json:"code"`
	Percent        int             `json:"percent"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// Cart is the per-user cart aggregate. TotalItems, SubTotal, DiscountAmount
// and TotalAmount are derived and rebuilt by Recalculate.
type Cart struct {
	Owner          string          `json:"owner"`
	Items          []CartLineItem  `json:"items"`
	AppliedCoupon  *AppliedCoupon  `json:"appliedCoupon"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	TotalItems     int             `json:"totalItems"`
	SubTotal       decimal.Decimal `json:"subTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewCart returns an empty, unsaved cart for owner.
func NewCart(owner string) *Cart {
	return &Cart{
		Owner: owner,
		Items: []CartLineItem{},
	}
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindByProduct returns the line item for productRef, or nil.
func (c *Cart) FindByProduct(productRef string) *CartLineItem {
	for i := range c.Items {
		if c.Items[i].ProductRef == productRef {
			return &c.Items[i]
		}
	}
	return nil
}

// AddProduct increments the quantity of the line for productRef, or appends
// a new line built from the snapshot.
func (c *Cart) AddProduct(productRef string, snapshot ProductSnapshot, quantity int) {
	if item := c.FindByProduct(productRef); item != nil {
		item.Quantity += quantity
		return
	}
	c.Items = append(c.Items, CartLineItem{
		ID:              uuid.New(),
		ProductRef:      productRef,
		ProductSnapshot: snapshot,
		Quantity:        quantity,
	})
}

// RemoveLine drops the line item with the given id and reports whether one
// was removed.
func (c *Cart) RemoveLine(lineItemID uuid.UUID) bool {
	for i := range c.Items {
		if c.Items[i].ID == lineItemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart and drops any applied coupon.
func (c *Cart) Clear() {
	c.Items = []CartLineItem{}
	c.AppliedCoupon = nil
}

// PricingLines returns the price and quantity of every line item.
func (c *Cart) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{Price: item.Price, Quantity: item.Quantity}
	}
	return lines
}

// Recalculate rebuilds every derived field from Items, AppliedCoupon and
// ShippingFee. The applied coupon's discount follows the current subtotal.
func (c *Cart) Recalculate() {
	if c.Items == nil {
		c.Items = []CartLineItem{}
	}

	lines := c.PricingLines()
	c.TotalItems = pricing.TotalItems(lines)
	c.SubTotal = pricing.Subtotal(lines)

	c.DiscountAmount = decimal.Zero
	if c.AppliedCoupon != nil {
		c.AppliedCoupon.DiscountAmount = pricing.PercentDiscount(c.SubTotal, c.AppliedCoupon.Percent)
		c.DiscountAmount = c.AppliedCoupon.DiscountAmount
	}

	c.TotalAmount = c.SubTotal.Add(c.ShippingFee).Sub(c.DiscountAmount)
}

// ApplyShipping sets ShippingFee from the settings for the current subtotal
// and recalculates.
func (c *Cart) ApplyShipping(settings ShippingSetting) {
	c.Recalculate()
	c.ShippingFee = pricing.EffectiveShippingFee(c.SubTotal, settings.Fee, settings.FreeOver)
	c.TotalAmount = c.SubTotal.Add(c.ShippingFee).Sub(c.DiscountAmount)
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = make([]CartLineItem, len(c.Items))
	copy(out.Items, c.Items)
	if c.AppliedCoupon != nil {
		coupon := *c.AppliedCoupon
		out.AppliedCoupon = &coupon
	}
	return &out
}

// AddItemRequest represents the request payload for adding a product.
type AddItemRequest struct {
	ProductRef string `json:"productRef"`
	Quantity   *int   `json:"quantity,omitempty"`
}

// UpdateQuantityRequest represents the request payload for setting a quantity.
type UpdateQuantityRequest struct {
	ProductRef  string `json:"productRef"`
	NewQuantity int    `json:"newQuantity"`
}

// ApplyCouponRequest represents the request payload for applying a coupon.
type ApplyCouponRequest struct {
	CouponCode string `json:"couponCode"`
}
