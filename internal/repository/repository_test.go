package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL testcontainer with the application schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, database.Schema())
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProducts inserts catalog rows; position follows slice order.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO products (id, slug, name, category, price, stock_quantity, status, parent_product_id, position, attributes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for i, p := range products {
		attrs := p.Attributes
		if attrs == nil {
			attrs = model.VariantAttributes{}
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err := pool.Exec(ctx, query,
			p.ID, p.Slug, p.Name, p.Category, p.Price, p.StockQuantity, p.Status,
			p.ParentProductID, i, attrs, createdAt)
		require.NoError(t, err)
	}
}

func strPtr(s string) *string {
	return &s
}

// phoneCatalog is a parent product with three variants, plus a standalone product.
func phoneCatalog() []model.Product {
	return []model.Product{
		{ID: "PHONE", Slug: "phone", Name: "Phone", Category: "phones", Price: 499, StockQuantity: 0, Status: "active"},
		{ID: "PHONE-R64", Slug: "phone-red-64", Name: "Phone Red 64GB", Category: "phones", Price: 499, StockQuantity: 5, Status: "active",
			ParentProductID: strPtr("PHONE"), Attributes: model.VariantAttributes{"color": "Red", "storage": "64GB"}},
		{ID: "PHONE-R128", Slug: "phone-red-128", Name: "Phone Red 128GB", Category: "phones", Price: 549, StockQuantity: 0, Status: "active",
			ParentProductID: strPtr("PHONE"), Attributes: model.VariantAttributes{"color": "Red", "storage": "128GB"}},
		{ID: "PHONE-B64", Slug: "phone-blue-64", Name: "Phone Blue 64GB", Category: "phones", Price: 499, StockQuantity: 3, Status: "draft",
			ParentProductID: strPtr("PHONE"), Attributes: model.VariantAttributes{"color": "Blue", "storage": "64GB"}},
		{ID: "MUG", Slug: "mug", Name: "Mug", Category: "kitchen", Price: 12.5, StockQuantity: 40, Status: "active"},
	}
}
