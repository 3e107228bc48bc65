//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"pawcart/internal/config"
	"pawcart/internal/database"
	"pawcart/internal/model"
	"pawcart/internal/repository"

	"github.com/shopspring/decimal"
)

// seed_catalog inserts a small pet-shop catalogue using the same database
// settings as the API server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	sale := func(v string) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.RequireFromString(v))
	}

	products := []model.Product{
		{ID: "P001", Name: "Rope Chew Toy", Slug: "rope-chew-toy", Price: decimal.RequireFromString("10.00"), Category: "Dog"},
		{ID: "P002", Name: "Cat Tree Tower", Slug: "cat-tree-tower", Price: decimal.RequireFromString("200.00"), Category: "Cat"},
		{ID: "P003", Name: "Salmon Cat Treats", Slug: "salmon-cat-treats", Price: decimal.RequireFromString("12.50"), SalePrice: sale("9.99"), Category: "Cat"},
		{ID: "P004", Name: "Orthopedic Dog Bed", Slug: "orthopedic-dog-bed", Price: decimal.RequireFromString("49.99"), Category: "Dog"},
		{ID: "P005", Name: "Aquarium Starter Kit", Slug: "aquarium-starter-kit", Price: decimal.RequireFromString("89.00"), SalePrice: sale("95.00"), Category: "Fish"},
		{ID: "P006", Name: "Bird Seed Mix", Slug: "bird-seed-mix", Price: decimal.RequireFromString("7.25"), Category: "Bird"},
	}

	if err := repository.NewProductRepository(pool, logger).Upsert(ctx, products); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding products failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d products into %s\n", len(products), cfg.Database.Database)
}
