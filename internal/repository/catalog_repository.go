package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, slug, name, category, price, stock_quantity, status, parent_product_id, attributes, created_at`

// catalogRepository implements CatalogRepository using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Category,
		&p.Price,
		&p.StockQuantity,
		&p.Status,
		&p.ParentProductID,
		&p.Attributes,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Attributes == nil {
		p.Attributes = model.VariantAttributes{}
	}
	return &p, nil
}

func (r *catalogRepository) getOne(ctx context.Context, field, value string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + field + ` = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str(field, value).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str(field, value).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// GetByID retrieves a single catalog row by its ID.
func (r *catalogRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a single catalog row by its slug.
func (r *catalogRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.getOne(ctx, "slug", slug)
}

// GetFamily retrieves the variants of rootID ordered by position, then id.
func (r *catalogRepository) GetFamily(ctx context.Context, rootID string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE parent_product_id = $1
		ORDER BY position, id
	`

	family, err := r.queryProducts(ctx, query, rootID)
	if err != nil {
		r.logger.Error().Err(err).Str("root_id", rootID).Msg("failed to query variant family")
		return nil, fmt.Errorf("failed to query variant family: %w", err)
	}
	if len(family) > 0 {
		return family, nil
	}

	root, err := r.GetByID(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return []model.Product{}, nil
	}
	return []model.Product{*root}, nil
}

// GetByIDs retrieves multiple catalog rows by their IDs.
func (r *catalogRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
	`

	products, err := r.queryProducts(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	return products, nil
}

func (r *catalogRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}
