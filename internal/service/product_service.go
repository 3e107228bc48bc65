package service

import (
	"context"
	"fmt"
	"strings"

	"pawcart/internal/model"
	"pawcart/internal/repository"

	"github.com/rs/zerolog"
)

// productService serves the shopper-facing catalogue. Every item carries the
// effective price the cart would snapshot for it.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List returns one page of catalogue items.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.CatalogItem, error) {
	filter = filter.Normalize()

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", filter.Category).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to list catalogue")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	items := make([]model.CatalogItem, 0, len(products))
	onSale := 0
	for i := range products {
		item := products[i].CatalogItem()
		if item.OnSale {
			onSale++
		}
		items = append(items, item)
	}

	s.logger.Debug().
		Str("category", filter.Category).
		Int("count", len(items)).
		Int("on_sale", onSale).
		Msg("catalogue page served")

	return items, nil
}

// GetByID returns the catalogue item for id.
func (s *productService) GetByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to look up product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	item := product.CatalogItem()
	return &item, nil
}
