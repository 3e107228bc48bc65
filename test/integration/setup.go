package integration

import (
	"context"
	"testing"
	"time"

	"pawcart/internal/database"
	"pawcart/internal/model"
	"pawcart/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the embedded
// migrations and returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedCatalog inserts the test products, coupons and shipping settings.
// Shipping is a flat 5.00, free from a 250.00 subtotal.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	products := []model.Product{
		{ID: "P001", Name: "Rope Chew Toy", Slug: "rope-chew-toy", Price: decimal.RequireFromString("10.00"), Category: "Dog"},
		{ID: "P002", Name: "Cat Tree Tower", Slug: "cat-tree-tower", Price: decimal.RequireFromString("200.00"), Category: "Cat"},
		{
			ID:        "P003",
			Name:      "Salmon Cat Treats",
			Slug:      "salmon-cat-treats",
			Price:     decimal.RequireFromString("12.50"),
			SalePrice: decimal.NewNullDecimal(decimal.RequireFromString("9.99")),
			Category:  "Cat",
		},
	}
	if err := repository.NewProductRepository(pool, logger).Upsert(ctx, products); err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}

	coupons := []model.Coupon{
		{Code: "SAVE10", Percent: 10, MinAmount: decimal.Zero, Status: true},
		{Code: "BIG100", Percent: 5, MinAmount: decimal.NewFromInt(100), Status: true},
		{Code: "OFF20", Percent: 20, MinAmount: decimal.Zero, Status: false},
	}
	if _, err := repository.NewCouponRepository(pool, logger).UpsertMany(ctx, coupons); err != nil {
		t.Fatalf("failed to seed coupons: %v", err)
	}

	shipping := model.ShippingSetting{Fee: decimal.NewFromInt(5), FreeOver: decimal.NewFromInt(250)}
	if _, err := repository.NewShippingRepository(pool, logger).Save(ctx, shipping); err != nil {
		t.Fatalf("failed to seed shipping settings: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE order_items, orders, carts, coupons, shipping_settings, products")
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}
