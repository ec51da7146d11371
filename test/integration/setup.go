package integration

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
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

// SetupTestDB creates a PostgreSQL test container with the application schema applied.
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
				WithStartupTimeout(30*time.Second)),
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

	if err := database.EnsureSchema(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
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

func strPtr(s string) *string {
	return &s
}

// phoneCatalog is a parent product with three variants, plus a standalone product.
func phoneCatalog() []model.Product {
	return []model.Product{
		{ID: "PHONE", Slug: "phone", Name: "Phone", Category: "phones", Price: 499, Status: model.StatusActive},
		{ID: "PHONE-R64", Slug: "phone-red-64", Name: "Phone Red 64GB", Category: "phones", Price: 499, StockQuantity: 5, Status: model.StatusActive,
			ParentProductID: strPtr("PHONE"), Attributes: model.VariantAttributes{"color": "Red", "storage": "64GB"}},
		{ID: "PHONE-R128", Slug: "phone-red-128", Name: "Phone Red 128GB", Category: "phones", Price: 549, StockQuantity: 0, Status: model.StatusActive,
			ParentProductID: strPtr("PHONE"), Attributes: model.VariantAttributes{"color": "Red", "storage": "128GB"}},
		{ID: "PHONE-B64", Slug: "phone-blue-64", Name: "Phone Blue 64GB", Category: "phones", Price: 479, StockQuantity: 3, Status: model.StatusActive,
			ParentProductID: strPtr("PHONE"), Attributes: model.VariantAttributes{"color": "Blue", "storage": "64GB"}},
		{ID: "MUG", Slug: "mug", Name: "Mug", Category: "kitchen", Price: 12.5, StockQuantity: 40, Status: model.StatusActive},
	}
}

// SeedProducts inserts the phone catalog; position follows slice order.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	query := `
		INSERT INTO products (id, slug, name, category, price, stock_quantity, status, parent_product_id, position, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for i, p := range phoneCatalog() {
		attrs := p.Attributes
		if attrs == nil {
			attrs = model.VariantAttributes{}
		}
		_, err := pool.Exec(ctx, query,
			p.ID, p.Slug, p.Name, p.Category, p.Price, p.StockQuantity, p.Status, p.ParentProductID, i, attrs,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// WriteLedger writes a gzipped coupon ledger into a temp directory and returns its path.
func WriteLedger(t *testing.T, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		t.Fatalf("failed to write ledger: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close ledger: %v", err)
	}
	return path
}
