package pricing

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// ComputeItemsSubtotal returns the pre-discount subtotal: the sum of unit price
// times quantity over all items. Each line is rounded before summing.
func ComputeItemsSubtotal(order model.Order) float64 {
	return toFloat(itemsSubtotal(order))
}

func itemsSubtotal(order model.Order) decimal.Decimal {
	total := decimal.Zero
	for _, item := range order.Items {
		total = total.Add(lineTotal(item))
	}
	return round2(total)
}

func lineTotal(item model.LineItem) decimal.Decimal {
	return round2(amount(item.UnitPrice).Mul(quantity(item.Quantity)))
}

// hasGigCompletion reports whether the order discount is allocated across items.
func hasGigCompletion(order model.Order) bool {
	return order.DiscountType == model.DiscountTypeGigCompletion && amount(order.Discount).IsPositive()
}

// ComputeItemPriceDetails derives the per-unit pricing of one item of order.
//
// A gig_completion discount is spread over the items in proportion to each
// item's share of the pre-discount subtotal. No other discount is allocated per
// item; those only affect order-level totals.
//
// The per-unit discount is capped at the unit price. When the gig_completion
// discount exceeds the items subtotal, the allocated amounts therefore sum to
// the subtotal rather than to order.Discount.
func ComputeItemPriceDetails(item model.LineItem, order model.Order) model.PriceDetails {
	unit := amount(item.UnitPrice)
	details := model.PriceDetails{
		OriginalPrice:   toFloat(unit),
		DiscountedPrice: toFloat(unit),
	}

	if !hasGigCompletion(order) {
		return details
	}
	subtotal := itemsSubtotal(order)
	if !subtotal.IsPositive() {
		return details
	}

	qty := quantity(item.Quantity)
	share := amount(order.Discount).Mul(lineTotal(item)).Div(subtotal)
	perUnit := share.Div(qty)
	if perUnit.GreaterThan(unit) {
		perUnit = unit
	}

	discountType := model.DiscountTypeGigCompletion
	details.DiscountAmount = toFloat(perUnit)
	details.DiscountedPrice = toFloat(floorZero(unit.Sub(perUnit)))
	details.DiscountType = &discountType
	if unit.IsPositive() {
		details.DiscountPercentage = toFloat(perUnit.Div(unit).Mul(hundred))
	}
	return details
}

// ComputeDiscountedItemsSubtotal returns the sum of discounted unit price times
// quantity, the "Subtotal" line shown at checkout.
func ComputeDiscountedItemsSubtotal(order model.Order) float64 {
	return toFloat(discountedItemsSubtotal(order))
}

func discountedItemsSubtotal(order model.Order) decimal.Decimal {
	total := decimal.Zero
	for _, item := range order.Items {
		details := ComputeItemPriceDetails(item, order)
		line := decimal.NewFromFloat(details.DiscountedPrice).Mul(quantity(item.Quantity))
		total = total.Add(round2(line))
	}
	return round2(total)
}

// DiscountLines returns the discounts displayed as separate negative lines.
//
// Coupon, Qoyns and cash wallet amounts always get their own line. A bare
// order discount is shown as "other" only when none of those three are present
// and the discount is not gig_completion, which is already folded into item prices.
func DiscountLines(order model.Order) []model.DiscountLine {
	coupon := amount(order.CouponDiscountAmount)
	qoyns := amount(order.QoynsDiscountAmount)
	wallet := amount(order.CashWalletAmount)

	lines := make([]model.DiscountLine, 0, 3)
	if coupon.IsPositive() {
		lines = append(lines, model.DiscountLine{Source: model.DiscountSourceCoupon, Amount: toFloat(coupon)})
	}
	if qoyns.IsPositive() {
		lines = append(lines, model.DiscountLine{Source: model.DiscountSourceQoyns, Amount: toFloat(qoyns)})
	}
	if wallet.IsPositive() {
		lines = append(lines, model.DiscountLine{Source: model.DiscountSourceCashWallet, Amount: toFloat(wallet)})
	}
	if other := otherDiscount(order); other.IsPositive() {
		lines = append(lines, model.DiscountLine{Source: model.DiscountSourceOther, Amount: toFloat(other)})
	}
	return lines
}

func otherDiscount(order model.Order) decimal.Decimal {
	if order.DiscountType == model.DiscountTypeGigCompletion {
		return decimal.Zero
	}
	if amount(order.CouponDiscountAmount).IsPositive() ||
		amount(order.QoynsDiscountAmount).IsPositive() ||
		amount(order.CashWalletAmount).IsPositive() {
		return decimal.Zero
	}
	return amount(order.Discount)
}

// ComputeOrderLevelDiscount returns coupon plus Qoyns plus any fallback "other"
// discount. gig_completion is excluded because it already lowered item prices,
// and the cash wallet is a payment source rather than a discount.
func ComputeOrderLevelDiscount(order model.Order) float64 {
	return toFloat(orderLevelDiscount(order))
}

func orderLevelDiscount(order model.Order) decimal.Decimal {
	total := amount(order.CouponDiscountAmount).
		Add(amount(order.QoynsDiscountAmount)).
		Add(otherDiscount(order))
	return round2(total)
}

// ComputeDiscountedSubtotal returns the discounted items subtotal minus all
// order-level discounts, floored at zero. VAT is charged on this amount.
func ComputeDiscountedSubtotal(order model.Order) float64 {
	return toFloat(discountedSubtotal(order))
}

func discountedSubtotal(order model.Order) decimal.Decimal {
	return round2(floorZero(discountedItemsSubtotal(order).Sub(orderLevelDiscount(order))))
}
