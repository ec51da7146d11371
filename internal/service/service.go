package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/session"
	"storefront/internal/variant"

	"github.com/google/uuid"
)

// CatalogService defines the product page and variant selection operations.
type CatalogService interface {
	// GetProduct loads a product page by id, or by slug when id is empty.
	GetProduct(ctx context.Context, id, slug string) (*ProductPage, error)

	// Resolve applies a full attribute selection to the family of a stored product.
	Resolve(ctx context.Context, productID string, selected model.VariantAttributes) (*Resolution, error)

	// ResolvePayload applies a selection to a catalog payload supplied by the caller.
	// When target is set the resolution also lists the values target can still take.
	ResolvePayload(ctx context.Context, payload model.CatalogPayload, selected model.VariantAttributes, target string) (*Resolution, error)
}

// CheckoutService defines pricing and order operations.
type CheckoutService interface {
	// Quote prices an order draft, applying a coupon code when one is given.
	Quote(ctx context.Context, sess session.Session, in QuoteInput) (*model.OrderSummary, error)

	// PlaceOrder prices the request against catalog prices and persists it.
	PlaceOrder(ctx context.Context, sess session.Session, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetOrder loads a placed order with its order history summary.
	GetOrder(ctx context.Context, sess session.Session, id uuid.UUID) (*model.OrderResponse, error)
}

// ProductPage is everything a product page renders for one product.
type ProductPage struct {
	Product      model.Product              `json:"product"`
	Family       []model.Variant            `json:"family"`
	Options      []variant.AttributeOptions `json:"options"`
	Selected     model.VariantAttributes    `json:"selected"`
	CanonicalURL string                     `json:"canonicalUrl"`
}

// Resolution is the outcome of a selection change.
type Resolution struct {
	variant.Transition
	Current      *model.Variant             `json:"current"`
	Options      []variant.AttributeOptions `json:"options"`
	TargetValues []string                   `json:"targetValues,omitempty"`
}

// QuoteInput is an order draft to price.
type QuoteInput struct {
	Order      model.Order
	CouponCode string
	Context    pricing.Context
}
