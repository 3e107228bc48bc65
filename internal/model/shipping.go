package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingSetting is the shop-wide shipping configuration. A zero FreeOver
// disables free shipping.
type ShippingSetting struct {
	Fee       decimal.Decimal `json:"fee" db:"fee"`
	FreeOver  decimal.Decimal `json:"freeOver" db:"free_over"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// DefaultShippingSetting is persisted the first time settings are read.
func DefaultShippingSetting() ShippingSetting {
	return ShippingSetting{
		Fee:      decimal.Zero,
		FreeOver: decimal.Zero,
	}
}

// ShippingSettingRequest represents the admin payload for updating shipping.
type ShippingSettingRequest struct {
	Fee      decimal.Decimal `json:"fee"`
	FreeOver decimal.Decimal `json:"freeOver"`
}

// Validate rejects negative amounts.
func (r *ShippingSettingRequest) Validate() error {
	if r.Fee.IsNegative() || r.FreeOver.IsNegative() {
		return NewDomainError(ErrCodeInvalidShipping, "Shipping fee and free-shipping threshold cannot be negative")
	}
	return nil
}
