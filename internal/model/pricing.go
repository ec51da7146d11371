package model

// Discount line sources shown on an order summary.
const (
	DiscountSourceCoupon     = "coupon"
	DiscountSourceQoyns      = "qoyns"
	DiscountSourceCashWallet = "cash_wallet"
	DiscountSourceOther      = "other"
)

// Total sources reported on an order summary.
const (
	TotalSourceServer  = "server"
	TotalSourceDerived = "derived"
)

// PriceDetails is the derived per-unit pricing of a line item. It is never persisted.
type PriceDetails struct {
	OriginalPrice      float64 `json:"originalPrice"`
	DiscountAmount     float64 `json:"discountAmount"`
	DiscountedPrice    float64 `json:"discountedPrice"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscountType       *string `json:"discountType"`
}

// ItemBreakdown pairs a line item with its derived pricing.
type ItemBreakdown struct {
	Item      LineItem     `json:"item"`
	Price     PriceDetails `json:"price"`
	LineTotal float64      `json:"lineTotal"`
}

// DiscountLine is one separately displayed discount on an order summary.
type DiscountLine struct {
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}

// OrderSummary is the full set of numbers displayed for an order.
type OrderSummary struct {
	Context                 string          `json:"context"`
	Items                   []ItemBreakdown `json:"items"`
	ItemsSubtotal           float64         `json:"itemsSubtotal"`
	DiscountedItemsSubtotal float64         `json:"discountedItemsSubtotal"`
	DiscountLines           []DiscountLine  `json:"discountLines"`
	OrderLevelDiscount      float64         `json:"orderLevelDiscount"`
	DiscountedSubtotal      float64         `json:"discountedSubtotal"`
	Vat                     float64         `json:"vat"`
	Shipping                float64         `json:"shipping"`
	Total                   float64         `json:"total"`
	TotalSource             string          `json:"totalSource"`
}
