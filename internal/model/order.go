package model

import (
	"time"

	"github.com/google/uuid"
)

// DiscountTypeGigCompletion is the order-level discount that is folded into item prices.
const DiscountTypeGigCompletion = "gig_completion"

// LineItem represents one entry in a cart or order. UnitPrice is always the pre-discount price.
type LineItem struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	UnitPrice float64  `json:"unitPrice"`
	Quantity  int      `json:"quantity"`
	LineTax   *float64 `json:"lineTax,omitempty"`
	LineVat   *float64 `json:"lineVat,omitempty"`
}

// Order is the pricing input: a checkout draft or a placed order snapshot.
type Order struct {
	Items                []LineItem `json:"items"`
	DiscountType         string     `json:"discountType,omitempty"`
	Discount             float64    `json:"discount,omitempty"`
	CouponDiscountAmount float64    `json:"couponDiscountAmount,omitempty"`
	QoynsDiscountAmount  float64    `json:"qoynsDiscountAmount,omitempty"`
	CashWalletAmount     float64    `json:"cashWalletAmount,omitempty"`
	ShippingCost         float64    `json:"shippingCost,omitempty"`
	Vat                  float64    `json:"vat,omitempty"`
	TotalAmount          *float64   `json:"totalAmount,omitempty"`
}

// OrderRecord is a persisted order row.
type OrderRecord struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	UserID               string    `json:"userId" db:"user_id"`
	CouponCode           *string   `json:"couponCode,omitempty" db:"coupon_code"`
	DiscountType         string    `json:"discountType,omitempty" db:"discount_type"`
	Discount             float64   `json:"discount" db:"discount"`
	CouponDiscountAmount float64   `json:"couponDiscountAmount" db:"coupon_discount_amount"`
	QoynsDiscountAmount  float64   `json:"qoynsDiscountAmount" db:"qoyns_discount_amount"`
	CashWalletAmount     float64   `json:"cashWalletAmount" db:"cash_wallet_amount"`
	ShippingCost         float64   `json:"shippingCost" db:"shipping_cost"`
	Vat                  float64   `json:"vat" db:"vat"`
	TotalAmount          float64   `json:"totalAmount" db:"total_amount"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a persisted line item in an order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// PricingInput rebuilds the pricing input from a persisted order and its items.
func (r OrderRecord) PricingInput(items []OrderItem) Order {
	total := r.TotalAmount
	order := Order{
		Items:                make([]LineItem, 0, len(items)),
		DiscountType:         r.DiscountType,
		Discount:             r.Discount,
		CouponDiscountAmount: r.CouponDiscountAmount,
		QoynsDiscountAmount:  r.QoynsDiscountAmount,
		CashWalletAmount:     r.CashWalletAmount,
		ShippingCost:         r.ShippingCost,
		Vat:                  r.Vat,
		TotalAmount:          &total,
	}
	for _, item := range items {
		order.Items = append(order.Items, LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return order
}

// OrderRequest represents the request payload for placing an order.
type OrderRequest struct {
	CouponCode          *string            `json:"couponCode,omitempty" validate:"omitempty,max=64"`
	DiscountType        string             `json:"discountType,omitempty" validate:"omitempty,max=64"`
	Discount            float64            `json:"discount,omitempty" validate:"gte=0"`
	QoynsDiscountAmount float64            `json:"qoynsDiscountAmount,omitempty" validate:"gte=0"`
	CashWalletAmount    float64            `json:"cashWalletAmount,omitempty" validate:"gte=0"`
	ShippingCost        float64            `json:"shippingCost,omitempty" validate:"gte=0"`
	Items               []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID      uuid.UUID    `json:"id"`
	Order   OrderRecord  `json:"order"`
	Items   []OrderItem  `json:"items"`
	Summary OrderSummary `json:"summary"`
}
