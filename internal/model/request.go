package model

import "encoding/json"

// ResolveRequest is a full attribute selection posted against a stored product.
type ResolveRequest struct {
	Selected VariantAttributes `json:"selected" validate:"dive,keys,required,max=64,endkeys,required,max=128"`
}

// CatalogResolveRequest carries a raw catalog backend response and a selection to apply to it.
type CatalogResolveRequest struct {
	Catalog  json.RawMessage   `json:"catalog" validate:"required"`
	Selected VariantAttributes `json:"selected" validate:"dive,keys,required,max=64,endkeys,required,max=128"`
	Target   string            `json:"target,omitempty" validate:"omitempty,max=64"`
}

// QuoteRequest carries a raw order payload to price.
type QuoteRequest struct {
	Order      json.RawMessage `json:"order" validate:"required"`
	CouponCode string          `json:"couponCode,omitempty" validate:"omitempty,max=64"`
	Context    string          `json:"context,omitempty" validate:"omitempty,oneof=checkout history"`
}
