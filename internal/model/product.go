package model

import "time"

// StatusActive marks a catalog entry that can be sold.
const StatusActive = "active"

// VariantAttributes maps an attribute name (e.g. "color") to its value (e.g. "Blue").
type VariantAttributes map[string]string

// Clone returns an independent copy of the attributes.
func (a VariantAttributes) Clone() VariantAttributes {
	out := make(VariantAttributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// AgreesWith reports whether a holds the same value as other for every key in other.
// Keys present only in a are ignored.
func (a VariantAttributes) AgreesWith(other VariantAttributes) bool {
	for k, v := range other {
		if got, ok := a[k]; !ok || got != v {
			return false
		}
	}
	return true
}

// Variant is an immutable catalog snapshot of one purchasable configuration of a product.
type Variant struct {
	ID                string            `json:"id"`
	Slug              string            `json:"slug"`
	VariantAttributes VariantAttributes `json:"variantAttributes"`
	StockQuantity     int               `json:"stockQuantity"`
	Status            string            `json:"status"`
	Price             float64           `json:"price"`
	ParentProductID   string            `json:"parentProductId,omitempty"`
}

// Available reports whether the variant is active and in stock.
func (v Variant) Available() bool {
	return v.Status == StatusActive && v.StockQuantity > 0
}

// Product represents a catalog row: a standalone product, a parent product or
// one of its variants.
type Product struct {
	ID              string            `json:"id" db:"id"`
	Slug            string            `json:"slug" db:"slug"`
	Name            string            `json:"name" db:"name"`
	Category        string            `json:"category" db:"category"`
	Price           float64           `json:"price" db:"price"`
	StockQuantity   int               `json:"stockQuantity" db:"stock_quantity"`
	Status          string            `json:"status" db:"status"`
	ParentProductID *string           `json:"parentProductId,omitempty" db:"parent_product_id"`
	Attributes      VariantAttributes `json:"variantAttributes" db:"attributes"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
}

// FamilyRootID returns the id shared by every member of the product's variant family.
func (p Product) FamilyRootID() string {
	if p.ParentProductID != nil && *p.ParentProductID != "" {
		return *p.ParentProductID
	}
	return p.ID
}

// Variant projects the catalog row onto the resolver's variant shape.
func (p Product) Variant() Variant {
	v := Variant{
		ID:                p.ID,
		Slug:              p.Slug,
		VariantAttributes: p.Attributes.Clone(),
		StockQuantity:     p.StockQuantity,
		Status:            p.Status,
		Price:             p.Price,
	}
	if p.ParentProductID != nil {
		v.ParentProductID = *p.ParentProductID
	}
	return v
}

// CatalogPayload is the normalized content of a catalog backend product response.
type CatalogPayload struct {
	Product        *Variant            `json:"product,omitempty"`
	Variants       []Variant           `json:"variants"`
	VariantOptions map[string][]string `json:"variantOptions,omitempty"`
}
