package repository

import (
	"context"
	"testing"

	"pawcart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	repo := NewProductRepository(pool, zerolog.Nop())
	require.NoError(t, repo.Upsert(context.Background(), products))
}

func testProduct(id, name, price string) model.Product {
	return model.Product{
		ID:       id,
		Name:     name,
		Slug:     id + "-slug",
		Price:    decimal.RequireFromString(price),
		Category: "Dog",
	}
}

func inCategory(p model.Product, category string) model.Product {
	p.Category = category
	return p
}

func TestProductRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	seedProducts(t, pool, []model.Product{
		testProduct("P001", "Rope Toy", "10.00"),
		inCategory(testProduct("P002", "Climbing Tree", "200.00"), "Cat"),
		inCategory(testProduct("P003", "Catnip Mouse", "12.50"), "Cat"),
		testProduct("P004", "Dog Bed", "49.99"),
		inCategory(testProduct("P005", "Aquarium Kit", "89.00"), "Fish"),
	})

	tests := []struct {
		name     string
		filter   model.ProductFilter
		expected []string
	}{
		{name: "all products by name", filter: model.ProductFilter{Limit: 10}, expected: []string{"P005", "P003", "P002", "P004", "P001"}},
		{name: "first page", filter: model.ProductFilter{Limit: 2}, expected: []string{"P005", "P003"}},
		{name: "last page", filter: model.ProductFilter{Limit: 2, Offset: 4}, expected: []string{"P001"}},
		{name: "offset beyond range", filter: model.ProductFilter{Limit: 10, Offset: 10}, expected: []string{}},
		{name: "one category", filter: model.ProductFilter{Category: "Cat", Limit: 10}, expected: []string{"P003", "P002"}},
		{name: "category page", filter: model.ProductFilter{Category: "Dog", Limit: 1, Offset: 1}, expected: []string{"P001"}},
		{name: "unknown category", filter: model.ProductFilter{Category: "Reptile", Limit: 10}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.List(context.Background(), tt.filter)

			require.NoError(t, err)
			require.NotNil(t, products)
			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestProductRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	onSale := testProduct("P001", "Catnip Mouse", "12.50")
	onSale.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString("9.99"))
	onSale.Image = "https://cdn.example.com/mouse.png"
	seedProducts(t, pool, []model.Product{onSale, testProduct("P002", "Leash", "20.00")})

	ctx := context.Background()

	t.Run("with sale price", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "P001")

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Catnip Mouse", p.Name)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("12.50")))
		require.True(t, p.SalePrice.Valid)
		assert.True(t, p.SalePrice.Decimal.Equal(decimal.RequireFromString("9.99")))
		assert.Equal(t, "https://cdn.example.com/mouse.png", p.Image)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("without sale price", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "P002")

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.False(t, p.SalePrice.Valid)
	})

	t.Run("not found", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "NOPE")

		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestProductRepository_UpsertReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	seedProducts(t, pool, []model.Product{testProduct("P001", "Old Name", "5.00")})
	seedProducts(t, pool, []model.Product{testProduct("P001", "New Name", "6.00")})

	p, err := repo.GetByID(ctx, "P001")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "New Name", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("6.00")))
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	// Close the pool to simulate database errors
	pool.Close()

	t.Run("List with closed pool", func(t *testing.T) {
		products, err := repo.List(context.Background(), model.ProductFilter{Limit: 10})

		require.Error(t, err)
		assert.Nil(t, products)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		product, err := repo.GetByID(context.Background(), "P001")

		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("Upsert with closed pool", func(t *testing.T) {
		err := repo.Upsert(context.Background(), []model.Product{testProduct("P009", "X", "1")})

		require.Error(t, err)
	})
}
