package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is an admin-defined percentage discount identified by its code.
type Coupon struct {
	Code       string          `json:"code" db:"code"`
	Percent    int             `json:"percent" db:"percent"`
	MinAmount  decimal.Decimal `json:"minAmount" db:"min_amount"`
	ValidFrom  *time.Time      `json:"validFrom,omitempty" db:"valid_from"`
	ValidUntil *time.Time      `json:"validUntil,omitempty" db:"valid_until"`
	Status     bool            `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// NormalizeCouponCode trims and upper-cases a coupon code. Codes are stored
// and looked up in this form.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponRequest represents the admin payload for creating or updating a coupon.
type CouponRequest struct {
	Code       string           `json:"code"`
	Percent    int              `json:"percent"`
	MinAmount  *decimal.Decimal `json:"minAmount,omitempty"`
	ValidFrom  *time.Time       `json:"validFrom,omitempty"`
	ValidUntil *time.Time       `json:"validUntil,omitempty"`
	Status     *bool            `json:"status,omitempty"`
}

// ToCoupon normalises the request into a coupon and validates it. A missing
// status defaults to active.
func (r *CouponRequest) ToCoupon() (*Coupon, error) {
	c := &Coupon{
		Code:       NormalizeCouponCode(r.Code),
		Percent:    r.Percent,
		MinAmount:  decimal.Zero,
		ValidFrom:  r.ValidFrom,
		ValidUntil: r.ValidUntil,
		Status:     true,
	}
	if r.MinAmount != nil {
		c.MinAmount = *r.MinAmount
	}
	if r.Status != nil {
		c.Status = *r.Status
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the admin-side constraints of a coupon definition.
func (c *Coupon) Validate() error {
	switch {
	case c.Code == "":
		return invalidCoupon("code is required")
	case c.Percent < 1 || c.Percent > 100:
		return invalidCoupon("percent must be between 1 and 100")
	case c.MinAmount.IsNegative():
		return invalidCoupon("minAmount cannot be negative")
	case c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom):
		return invalidCoupon("validUntil must not be before validFrom")
	}
	return nil
}

func invalidCoupon(reason string) error {
	return NewDomainError(ErrCodeInvalidCoupon, fmt.Sprintf("Coupon definition is invalid: %s", reason))
}
