// Package pricing computes line item and order totals under the storefront's
// discount regimes. Every function is pure: the same order always prices the same.
package pricing

import (
	"fmt"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Context selects the call site an order is priced for.
type Context string

const (
	// ContextCheckout prices a draft order; missing shipping is free.
	ContextCheckout Context = "checkout"
	// ContextHistory prices a placed order; missing shipping falls back to a flat fee.
	ContextHistory Context = "history"
)

// ParseContext converts a string to a Context. Empty means checkout.
func ParseContext(s string) (Context, error) {
	switch Context(s) {
	case "", ContextCheckout:
		return ContextCheckout, nil
	case ContextHistory:
		return ContextHistory, nil
	default:
		return "", fmt.Errorf("unknown pricing context: %q", s)
	}
}

// TotalPolicy selects how an order total is derived when the server did not supply one.
type TotalPolicy string

const (
	// TotalPolicyLegacy: discounted items subtotal + VAT + shipping - Qoyns - cash wallet.
	TotalPolicyLegacy TotalPolicy = "legacy"
	// TotalPolicyNet: discounted subtotal after every order-level discount + VAT + shipping - cash wallet.
	TotalPolicyNet TotalPolicy = "net"
)

// Config holds the pricing constants.
type Config struct {
	VATRate          float64
	CheckoutShipping float64
	HistoryShipping  float64
	TotalPolicy      TotalPolicy
}

// DefaultConfig returns the storefront's standard pricing constants.
func DefaultConfig() Config {
	return Config{
		VATRate:          0.05,
		CheckoutShipping: 0,
		HistoryShipping:  9.00,
		TotalPolicy:      TotalPolicyLegacy,
	}
}

// Engine computes order-level figures that depend on pricing configuration.
type Engine struct {
	vatRate          decimal.Decimal
	checkoutShipping decimal.Decimal
	historyShipping  decimal.Decimal
	policy           TotalPolicy
}

// NewEngine creates an engine. Malformed rates and fees are treated as zero and
// an unknown total policy falls back to legacy.
func NewEngine(cfg Config) *Engine {
	policy := cfg.TotalPolicy
	if policy != TotalPolicyNet {
		policy = TotalPolicyLegacy
	}
	return &Engine{
		vatRate:          amount(cfg.VATRate),
		checkoutShipping: amount(cfg.CheckoutShipping),
		historyShipping:  amount(cfg.HistoryShipping),
		policy:           policy,
	}
}

// Vat returns VAT charged on the post-discount subtotal. Line-level tax fields
// on items are ignored.
func (e *Engine) Vat(order model.Order) float64 {
	return toFloat(e.vat(order))
}

func (e *Engine) vat(order model.Order) decimal.Decimal {
	return round2(discountedSubtotal(order).Mul(e.vatRate))
}

// Shipping returns the order's shipping cost, or the context's default when
// the order carries none.
func (e *Engine) Shipping(order model.Order, ctx Context) float64 {
	return toFloat(e.shipping(order, ctx))
}

func (e *Engine) shipping(order model.Order, ctx Context) decimal.Decimal {
	if cost := amount(order.ShippingCost); cost.IsPositive() {
		return round2(cost)
	}
	if ctx == ContextHistory {
		return e.historyShipping
	}
	return e.checkoutShipping
}

// Total returns the order total and where it came from. A server-supplied
// total is authoritative; otherwise it is derived under the engine's policy.
func (e *Engine) Total(order model.Order, ctx Context) (float64, string) {
	if order.TotalAmount != nil {
		return toFloat(amount(*order.TotalAmount)), model.TotalSourceServer
	}
	return toFloat(e.derivedTotal(order, ctx)), model.TotalSourceDerived
}

func (e *Engine) derivedTotal(order model.Order, ctx Context) decimal.Decimal {
	wallet := amount(order.CashWalletAmount)
	var total decimal.Decimal
	switch e.policy {
	case TotalPolicyNet:
		total = discountedSubtotal(order).
			Add(e.vat(order)).
			Add(e.shipping(order, ctx)).
			Sub(wallet)
	default:
		total = discountedItemsSubtotal(order).
			Add(e.vat(order)).
			Add(e.shipping(order, ctx)).
			Sub(amount(order.QoynsDiscountAmount)).
			Sub(wallet)
	}
	return round2(floorZero(total))
}

// Summarize computes every figure displayed for order in the given context.
func (e *Engine) Summarize(order model.Order, ctx Context) model.OrderSummary {
	items := make([]model.ItemBreakdown, 0, len(order.Items))
	for _, item := range order.Items {
		details := ComputeItemPriceDetails(item, order)
		line := decimal.NewFromFloat(details.DiscountedPrice).Mul(quantity(item.Quantity))
		items = append(items, model.ItemBreakdown{
			Item:      item,
			Price:     details,
			LineTotal: toFloat(line),
		})
	}

	total, source := e.Total(order, ctx)
	return model.OrderSummary{
		Context:                 string(ctx),
		Items:                   items,
		ItemsSubtotal:           ComputeItemsSubtotal(order),
		DiscountedItemsSubtotal: ComputeDiscountedItemsSubtotal(order),
		DiscountLines:           DiscountLines(order),
		OrderLevelDiscount:      ComputeOrderLevelDiscount(order),
		DiscountedSubtotal:      ComputeDiscountedSubtotal(order),
		Vat:                     e.Vat(order),
		Shipping:                e.Shipping(order, ctx),
		Total:                   total,
		TotalSource:             source,
	}
}
