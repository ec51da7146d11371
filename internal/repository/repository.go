package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogRepository defines the interface for catalog data access operations.
type CatalogRepository interface {
	// GetByID retrieves a single catalog row by its ID. It returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetBySlug retrieves a single catalog row by its slug. It returns nil, nil when absent.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// GetFamily retrieves the variants of rootID in catalog order. A product
	// without variants is returned as a family of one.
	GetFamily(ctx context.Context, rootID string) ([]model.Product, error)

	// GetByIDs retrieves multiple catalog rows by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.OrderRecord) error

	// CreateOrderItems inserts the order's items, preserving their order, within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// ReserveStock decrements catalog stock for the items within the provided
	// transaction. It returns model.ErrProductUnavailable when a product is not
	// active or has too little stock left.
	ReserveStock(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. It returns nil, nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderRecord, []model.OrderItem, error)
}
