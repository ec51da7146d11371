package coupon

import (
	"context"
)

// Kind is how a coupon's value is applied to an order subtotal.
type Kind string

const (
	KindFixed   Kind = "fixed"
	KindPercent Kind = "percent"
)

// Registry resolves coupon codes into discount amounts.
type Registry interface {
	// Resolve returns the discount a code grants against subtotal.
	// Codes outside the configured length bounds fail with model.ErrInvalidCouponCode;
	// unknown codes fail with model.ErrCouponNotFound.
	Resolve(ctx context.Context, code string, subtotal float64) (float64, error)

	// Size returns the number of distinct codes loaded.
	Size() int

	// Close releases resources held by the registry.
	Close() error
}

// Ledger is an in-memory set of coupon rules keyed by code.
type Ledger interface {
	// Lookup returns the rule for code.
	Lookup(code string) (Rule, bool)

	// Rules returns every rule in the ledger, in no particular order.
	Rules() []Rule

	// Size returns the number of rules in the ledger.
	Size() int
}

// Loader defines the interface for loading coupon ledgers.
type Loader interface {
	// Load reads a gzipped ledger and returns its rules.
	Load(ctx context.Context, path string) (Ledger, error)
}
