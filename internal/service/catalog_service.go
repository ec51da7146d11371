package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/cache"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/variant"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	repo    repository.CatalogRepository
	cache   *cache.FamilyCache
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalog service. cache and m may be nil.
func NewCatalogService(
	repo repository.CatalogRepository,
	familyCache *cache.FamilyCache,
	m *metrics.Metrics,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		repo:    repo,
		cache:   familyCache,
		metrics: m,
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

// GetProduct loads a product page by id, or by slug when id is empty.
func (s *catalogService) GetProduct(ctx context.Context, id, slug string) (*ProductPage, error) {
	product, err := s.loadProduct(ctx, id, slug)
	if err != nil {
		return nil, err
	}

	family, err := s.family(ctx, product)
	if err != nil {
		return nil, err
	}

	shown := product.Variant()
	sel := variant.NewSelection(family, &shown)

	return &ProductPage{
		Product:      *product,
		Family:       family,
		Options:      sel.Options(),
		Selected:     sel.Selected(),
		CanonicalURL: variant.GenerateProductURL(product.ID, product.Slug),
	}, nil
}

// Resolve applies a full attribute selection to the family of a stored product.
func (s *catalogService) Resolve(ctx context.Context, productID string, selected model.VariantAttributes) (*Resolution, error) {
	product, err := s.loadProduct(ctx, productID, "")
	if err != nil {
		return nil, err
	}

	family, err := s.family(ctx, product)
	if err != nil {
		return nil, err
	}

	shown := product.Variant()
	return s.resolve(family, &shown, selected, ""), nil
}

// ResolvePayload applies a selection to a catalog payload supplied by the caller.
func (s *catalogService) ResolvePayload(_ context.Context, payload model.CatalogPayload, selected model.VariantAttributes, target string) (*Resolution, error) {
	family := payload.Variants
	if len(family) == 0 && payload.Product != nil {
		family = []model.Variant{*payload.Product}
	}
	return s.resolve(family, payload.Product, selected, target), nil
}

func (s *catalogService) resolve(family []model.Variant, shown *model.Variant, selected model.VariantAttributes, target string) *Resolution {
	sel := variant.NewSelection(family, shown)

	t, err := sel.Resolve(selected)
	if err != nil {
		var missing *model.MissingVariantIdentityError
		if errors.As(err, &missing) {
			s.logger.Warn().Err(err).Msg("matched variant cannot be deep-linked")
		} else {
			s.logger.Error().Err(err).Msg("selection resolve failed")
		}
	}
	s.metrics.RecordResolution(string(t.State))

	res := &Resolution{
		Transition: t,
		Current:    sel.Current(),
		Options:    sel.Options(),
	}
	if target != "" {
		res.TargetValues = variant.ComputeAvailableOptions(family, t.Selected, target).Values()
	}
	return res
}

func (s *catalogService) loadProduct(ctx context.Context, id, slug string) (*model.Product, error) {
	var (
		product *model.Product
		err     error
	)
	switch {
	case id != "":
		product, err = s.repo.GetByID(ctx, id)
	case slug != "":
		product, err = s.repo.GetBySlug(ctx, slug)
	default:
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Str("slug", slug).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		s.logger.Debug().Str("product_id", id).Str("slug", slug).Msg("product not found")
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// family returns the variant family of product, consulting the cache first.
func (s *catalogService) family(ctx context.Context, product *model.Product) ([]model.Variant, error) {
	rootID := product.FamilyRootID()
	if family, ok := s.cache.Get(ctx, rootID); ok {
		return family, nil
	}

	rows, err := s.repo.GetFamily(ctx, rootID)
	if err != nil {
		s.logger.Error().Err(err).Str("root_id", rootID).Msg("failed to get variant family")
		return nil, fmt.Errorf("failed to get variant family: %w", err)
	}

	family := make([]model.Variant, 0, len(rows))
	for _, row := range rows {
		family = append(family, row.Variant())
	}
	if len(family) == 0 {
		family = append(family, product.Variant())
	}

	if err := s.cache.Set(ctx, rootID, family); err != nil {
		s.logger.Warn().Err(err).Str("root_id", rootID).Msg("failed to cache variant family")
	}
	return family, nil
}
