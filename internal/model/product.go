package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a pet-shop product in the catalogue.
type Product struct {
	ID        string              `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	Slug      string              `json:"slug" db:"slug"`
	Price     decimal.Decimal     `json:"price" db:"price"`
	SalePrice decimal.NullDecimal `json:"salePrice" db:"sale_price"`
	Image     string              `json:"image,omitempty" db:"image"`
	Category  string              `json:"category" db:"category"`
	CreatedAt time.Time           `json:"createdAt" db:"created_at"`
}

// Catalogue paging bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ProductFilter narrows a catalogue listing. An empty Category matches
// every product.
type ProductFilter struct {
	Category string
	Limit    int
	Offset   int
}

// Normalize trims the category and clamps the paging values into range.
func (f ProductFilter) Normalize() ProductFilter {
	f.Category = strings.TrimSpace(f.Category)
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// CatalogItem is a product as shown to shoppers, carrying the unit price a
// cart line would be charged.
type CatalogItem struct {
	Product
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
	OnSale         bool            `json:"onSale"`
}

// EffectivePrice is the sale price when one is set, positive and below the
// regular price; otherwise the regular price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid && p.SalePrice.Decimal.IsPositive() && p.SalePrice.Decimal.LessThan(p.Price) {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// OnSale reports whether the sale price is the one charged.
func (p *Product) OnSale() bool {
	return !p.EffectivePrice().Equal(p.Price)
}

// CatalogItem returns the shopper-facing view of p.
func (p *Product) CatalogItem() CatalogItem {
	return CatalogItem{
		Product:        *p,
		EffectivePrice: p.EffectivePrice(),
		OnSale:         p.OnSale(),
	}
}

// Snapshot captures the display data a cart line keeps from the product at
// the moment it is added.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:  p.Name,
		Price: p.EffectivePrice(),
		Image: p.Image,
		Slug:  p.Slug,
	}
}
