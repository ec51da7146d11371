package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.OrderRecord) error {
	query := `
		INSERT INTO orders (
			id, user_id, coupon_code, discount_type, discount,
			coupon_discount_amount, qoyns_discount_amount, cash_wallet_amount,
			shipping_cost, vat, total_amount, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.CouponCode,
		order.DiscountType,
		order.Discount,
		order.CouponDiscountAmount,
		order.QoynsDiscountAmount,
		order.CashWalletAmount,
		order.ShippingCost,
		order.Vat,
		order.TotalAmount,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Float64("total_amount", order.TotalAmount).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts the order's items in one batch within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, i)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// ReserveStock decrements stock for every product in items. Quantities of
// repeated products are summed so each row is updated once.
func (r *orderRepository) ReserveStock(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	wanted := make(map[string]int, len(items))
	for _, item := range items {
		if _, ok := wanted[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}
		wanted[item.ProductID] += item.Quantity
	}

	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND status = 'active' AND stock_quantity >= $2
	`

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, id, wanted[id])
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for _, id := range ids {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().Err(err).Str("product_id", id).Msg("failed to reserve stock")
			return fmt.Errorf("failed to reserve stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			r.logger.Warn().
				Str("product_id", id).
				Int("quantity", wanted[id]).
				Msg("insufficient stock")
			return model.ErrProductUnavailable
		}
	}

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderRecord, []model.OrderItem, error) {
	orderQuery := `
		SELECT id, user_id, coupon_code, discount_type, discount,
			coupon_discount_amount, qoyns_discount_amount, cash_wallet_amount,
			shipping_cost, vat, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.OrderRecord
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.CouponCode,
		&order.DiscountType,
		&order.Discount,
		&order.CouponDiscountAmount,
		&order.QoynsDiscountAmount,
		&order.CashWalletAmount,
		&order.ShippingCost,
		&order.Vat,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, name, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, items, nil
}
