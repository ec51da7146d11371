package repository

import (
	"context"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository_GetByIDAndSlug(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	seedProducts(t, pool, phoneCatalog())
	ctx := context.Background()

	t.Run("By ID", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "PHONE-R64")
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.Equal(t, "phone-red-64", p.Slug)
		assert.Equal(t, 499.0, p.Price)
		assert.Equal(t, 5, p.StockQuantity)
		require.NotNil(t, p.ParentProductID)
		assert.Equal(t, "PHONE", *p.ParentProductID)
		assert.Equal(t, model.VariantAttributes{"color": "Red", "storage": "64GB"}, p.Attributes)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("By slug", func(t *testing.T) {
		p, err := repo.GetBySlug(ctx, "mug")
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.Equal(t, "MUG", p.ID)
		assert.Nil(t, p.ParentProductID)
		assert.Empty(t, p.Attributes)
		assert.Equal(t, "MUG", p.FamilyRootID())
	})

	t.Run("Not found", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, p)

		p, err = repo.GetBySlug(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestCatalogRepository_GetFamily(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	seedProducts(t, pool, phoneCatalog())
	ctx := context.Background()

	tests := []struct {
		name     string
		rootID   string
		expected []string
	}{
		{name: "Variants in catalog order", rootID: "PHONE", expected: []string{"PHONE-R64", "PHONE-R128", "PHONE-B64"}},
		{name: "Standalone product is its own family", rootID: "MUG", expected: []string{"MUG"}},
		{name: "Unknown root", rootID: "NOPE", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, err := repo.GetFamily(ctx, tt.rootID)
			require.NoError(t, err)

			ids := make([]string, 0, len(family))
			for _, p := range family {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestCatalogRepository_GetByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	seedProducts(t, pool, phoneCatalog())
	ctx := context.Background()

	products, err := repo.GetByIDs(ctx, []string{"MUG", "PHONE-R64", "MISSING"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "MUG", products[0].ID)
	assert.Equal(t, "PHONE-R64", products[1].ID)

	products, err = repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()
	pool.Close()

	_, err := repo.GetByID(ctx, "PHONE")
	assert.Error(t, err)

	_, err = repo.GetFamily(ctx, "PHONE")
	assert.Error(t, err)

	_, err = repo.GetByIDs(ctx, []string{"PHONE"})
	assert.Error(t, err)
}
