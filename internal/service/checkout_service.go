package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/cache"
	"storefront/internal/coupon"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	coupons     coupon.Registry
	engine      *pricing.Engine
	familyCache *cache.FamilyCache
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	coupons coupon.Registry,
	engine *pricing.Engine,
	familyCache *cache.FamilyCache,
	m *metrics.Metrics,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		coupons:     coupons,
		engine:      engine,
		familyCache: familyCache,
		metrics:     m,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// Quote prices an order draft. A coupon code replaces any coupon amount on the draft.
func (s *checkoutService) Quote(ctx context.Context, sess session.Session, in QuoteInput) (*model.OrderSummary, error) {
	order := in.Order
	pricingCtx := in.Context
	if pricingCtx == "" {
		pricingCtx = pricing.ContextCheckout
	}

	if code := strings.TrimSpace(in.CouponCode); code != "" {
		amount, err := s.applyCoupon(ctx, code, order)
		if err != nil {
			return nil, err
		}
		order.CouponDiscountAmount = amount
	}

	summary := s.engine.Summarize(order, pricingCtx)
	s.metrics.RecordQuote(summary.Context, summary.TotalSource)

	s.logger.Debug().
		Str("user_id", sess.UserID).
		Str("context", summary.Context).
		Int("item_count", len(order.Items)).
		Float64("total", summary.Total).
		Msg("order quoted")

	return &summary, nil
}

// PlaceOrder prices the request against catalog prices, reserves stock and
// persists it in one transaction. Discount, Qoyns, wallet and shipping amounts
// are taken from the request as supplied by the calling backend.
func (s *checkoutService) PlaceOrder(ctx context.Context, sess session.Session, req *model.OrderRequest) (*model.OrderResponse, error) {
	if !sess.Authenticated() {
		return nil, model.ErrUnauthenticated
	}
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	order, roots, err := s.buildOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	var couponCode *string
	if req.CouponCode != nil {
		if code := strings.TrimSpace(*req.CouponCode); code != "" {
			amount, err := s.applyCoupon(ctx, code, order)
			if err != nil {
				return nil, err
			}
			order.CouponDiscountAmount = amount
			couponCode = &code
		}
	}

	summary := s.engine.Summarize(order, pricing.ContextCheckout)
	s.metrics.RecordQuote(summary.Context, summary.TotalSource)

	now := time.Now().UTC()
	record := &model.OrderRecord{
		ID:                   uuid.New(),
		UserID:               sess.UserID,
		CouponCode:           couponCode,
		DiscountType:         order.DiscountType,
		Discount:             order.Discount,
		CouponDiscountAmount: order.CouponDiscountAmount,
		QoynsDiscountAmount:  order.QoynsDiscountAmount,
		CashWalletAmount:     order.CashWalletAmount,
		ShippingCost:         summary.Shipping,
		Vat:                  summary.Vat,
		TotalAmount:          summary.Total,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	items := make([]model.OrderItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   record.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	if err := s.persist(ctx, record, items); err != nil {
		return nil, err
	}
	s.invalidateFamilies(ctx, roots)

	s.logger.Info().
		Str("order_id", record.ID.String()).
		Str("user_id", sess.UserID).
		Int("item_count", len(items)).
		Float64("total", record.TotalAmount).
		Msg("order created successfully")

	return &model.OrderResponse{
		ID:      record.ID,
		Order:   *record,
		Items:   items,
		Summary: summary,
	}, nil
}

// GetOrder loads a placed order and prices it for the order history view.
// The stored total is authoritative and is never re-derived.
func (s *checkoutService) GetOrder(ctx context.Context, sess session.Session, id uuid.UUID) (*model.OrderResponse, error) {
	if !sess.Authenticated() {
		return nil, model.ErrUnauthenticated
	}

	record, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if record == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	if record.UserID != sess.UserID {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("user_id", sess.UserID).
			Msg("order requested by another customer")
		return nil, model.ErrForbidden
	}

	summary := s.engine.Summarize(record.PricingInput(items), pricing.ContextHistory)
	s.metrics.RecordQuote(summary.Context, summary.TotalSource)

	return &model.OrderResponse{
		ID:      record.ID,
		Order:   *record,
		Items:   items,
		Summary: summary,
	}, nil
}

// applyCoupon resolves code against the order's pre-discount items subtotal.
func (s *checkoutService) applyCoupon(ctx context.Context, code string, order model.Order) (float64, error) {
	if s.coupons == nil {
		s.metrics.RecordCouponLookup("not_found")
		return 0, model.ErrCouponNotFound
	}

	amount, err := s.coupons.Resolve(ctx, code, pricing.ComputeItemsSubtotal(order))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCouponCode):
			s.metrics.RecordCouponLookup("invalid")
		case errors.Is(err, model.ErrCouponNotFound):
			s.metrics.RecordCouponLookup("not_found")
		default:
			s.metrics.RecordCouponLookup("error")
			return 0, fmt.Errorf("failed to resolve coupon: %w", err)
		}
		s.logger.Warn().Str("coupon_code", code).Err(err).Msg("coupon rejected")
		return 0, err
	}

	s.metrics.RecordCouponLookup("applied")
	s.logger.Debug().Str("coupon_code", code).Float64("amount", amount).Msg("coupon applied")
	return amount, nil
}

// buildOrder prices the requested items from the catalog. Every product must be
// available and hold enough stock for the summed quantity of its lines. It also
// returns the family roots of the ordered products.
func (s *checkoutService) buildOrder(ctx context.Context, req *model.OrderRequest) (model.Order, []string, error) {
	ids := make([]string, 0, len(req.Items))
	wanted := make(map[string]int, len(req.Items))
	for _, item := range req.Items {
		if _, ok := wanted[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}
		wanted[item.ProductID] += item.Quantity
	}

	products, err := s.catalogRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("product_count", len(ids)).Msg("failed to retrieve product details")
		return model.Order{}, nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	roots := make([]string, 0, len(ids))
	seenRoot := make(map[string]bool, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			s.logger.Warn().Str("product_id", id).Msg("product not found")
			return model.Order{}, nil, model.ErrProductNotFound
		}
		if !p.Variant().Available() || wanted[id] > p.StockQuantity {
			s.logger.Warn().
				Str("product_id", id).
				Str("status", p.Status).
				Int("stock", p.StockQuantity).
				Int("quantity", wanted[id]).
				Msg("product unavailable")
			return model.Order{}, nil, model.ErrProductUnavailable
		}
		if root := p.FamilyRootID(); !seenRoot[root] {
			seenRoot[root] = true
			roots = append(roots, root)
		}
	}

	order := model.Order{
		Items:               make([]model.LineItem, 0, len(req.Items)),
		DiscountType:        req.DiscountType,
		Discount:            req.Discount,
		QoynsDiscountAmount: req.QoynsDiscountAmount,
		CashWalletAmount:    req.CashWalletAmount,
		ShippingCost:        req.ShippingCost,
	}
	for _, item := range req.Items {
		p := byID[item.ProductID]
		order.Items = append(order.Items, model.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  item.Quantity,
		})
	}
	return order, roots, nil
}

// invalidateFamilies drops cached families whose stock changed.
func (s *checkoutService) invalidateFamilies(ctx context.Context, roots []string) {
	for _, root := range roots {
		if err := s.familyCache.Invalidate(ctx, root); err != nil {
			s.logger.Warn().Err(err).Str("root_id", root).Msg("failed to invalidate variant family cache")
		}
	}
}

func (s *checkoutService) persist(ctx context.Context, record *model.OrderRecord, items []model.OrderItem) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, record); err != nil {
		s.logger.Error().Err(err).Str("order_id", record.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", record.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = s.orderRepo.ReserveStock(ctx, tx, items); err != nil {
		if errors.Is(err, model.ErrProductUnavailable) {
			return err
		}
		s.logger.Error().Err(err).Str("order_id", record.ID.String()).Msg("failed to reserve stock")
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", record.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// validateOrderRequest validates the order request.
func (s *checkoutService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("item %d: product ID is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
