package coupon

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// RegistryConfig holds configuration for the coupon registry.
type RegistryConfig struct {
	// Ledgers are loaded in order; a code in a later ledger overrides earlier ones.
	Ledgers []string

	MinLength int
	MaxLength int
}

// DefaultRegistryConfig returns the default registry configuration.
func DefaultRegistryConfig() *RegistryConfig {
	return &RegistryConfig{
		Ledgers: []string{
			"data/coupons/ledger1.gz",
			"data/coupons/ledger2.gz",
		},
		MinLength: 4,
		MaxLength: 20,
	}
}

// registry implements Registry over a single merged ledger.
type registry struct {
	mu        sync.RWMutex
	ledger    *MapLedger
	minLength int
	maxLength int
	logger    zerolog.Logger
}

// NewRegistry loads every configured ledger concurrently and merges them.
// Any ledger failing to load fails the registry.
func NewRegistry(ctx context.Context, cfg *RegistryConfig, loader Loader, logger zerolog.Logger) (Registry, error) {
	if cfg == nil {
		cfg = DefaultRegistryConfig()
	}

	logger = logger.With().Str("component", "coupon-registry").Logger()
	logger.Info().
		Int("ledger_count", len(cfg.Ledgers)).
		Msg("initialising coupon registry")

	type loadResult struct {
		index  int
		ledger Ledger
		err    error
	}

	resultChan := make(chan loadResult, len(cfg.Ledgers))
	var wg sync.WaitGroup

	for i, path := range cfg.Ledgers {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			ledger, err := loader.Load(ctx, path)
			resultChan <- loadResult{index: index, ledger: ledger, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(cfg.Ledgers))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := NewMapLedger(0)
	for i, result := range results {
		if result.err != nil {
			logger.Error().Err(result.err).Str("ledger", cfg.Ledgers[i]).Msg("failed to load coupon ledger")
			return nil, fmt.Errorf("failed to load coupon ledger %s: %w", cfg.Ledgers[i], result.err)
		}
		for _, rule := range result.ledger.Rules() {
			merged.Add(rule)
		}
	}

	logger.Info().
		Int("total_coupons", merged.Size()).
		Msg("coupon registry initialised")

	return &registry{
		ledger:    merged,
		minLength: cfg.MinLength,
		maxLength: cfg.MaxLength,
		logger:    logger,
	}, nil
}

// Resolve returns the discount a code grants against subtotal.
func (r *registry) Resolve(ctx context.Context, code string, subtotal float64) (float64, error) {
	code = strings.TrimSpace(code)
	if len(code) < r.minLength || (r.maxLength > 0 && len(code) > r.maxLength) {
		r.logger.Debug().Int("length", len(code)).Msg("coupon code length invalid")
		return 0, model.ErrInvalidCouponCode
	}

	r.mu.RLock()
	ledger := r.ledger
	r.mu.RUnlock()
	if ledger == nil {
		return 0, model.ErrCouponNotFound
	}

	rule, ok := ledger.Lookup(code)
	if !ok {
		r.logger.Debug().Str("coupon_code", code).Msg("coupon code not found")
		return 0, model.ErrCouponNotFound
	}
	return rule.Amount(subtotal), nil
}

func (r *registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.ledger == nil {
		return 0
	}
	return r.ledger.Size()
}

// Close releases resources held by the registry.
func (r *registry) Close() error {
	r.mu.Lock()
	r.ledger = nil
	r.mu.Unlock()

	r.logger.Info().Msg("coupon registry closed")
	return nil
}
