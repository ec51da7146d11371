package ingest

import "storefront/internal/model"

// DecodeOrder parses a cart or order backend payload into a model.Order.
// Only malformed JSON is an error; irregular fields are coerced.
func DecodeOrder(data []byte) (model.Order, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return model.Order{}, err
	}
	return NormalizeOrder(obj), nil
}

// NormalizeOrder maps an already-decoded order object onto model.Order.
func NormalizeOrder(obj map[string]any) model.Order {
	obj = unwrap(obj, "data")
	obj = unwrap(obj, "order", "cart")

	order := model.Order{
		DiscountType:         text(obj, "discountType", "discount_type"),
		Discount:             money(obj, "discount"),
		CouponDiscountAmount: money(obj, "couponDiscountAmount", "coupon_discount_amount", "couponDiscount"),
		QoynsDiscountAmount:  money(obj, "qoynsDiscountAmount", "qoyns_discount_amount", "qoynsDiscount"),
		CashWalletAmount:     money(obj, "cashWalletAmount", "cash_wallet_amount", "walletAmount"),
		ShippingCost:         money(obj, "shippingCost", "shipping_cost", "shipping"),
		Vat:                  money(obj, "vat"),
		TotalAmount:          optionalMoney(obj, "totalAmount", "total_amount"),
	}

	rawItems, _ := lookup(obj, "items", "order_items", "cartItems")
	list, _ := rawItems.([]any)
	order.Items = make([]model.LineItem, 0, len(list))
	for _, raw := range list {
		item, ok := raw.(object)
		if !ok {
			continue
		}
		order.Items = append(order.Items, NormalizeLineItem(item))
	}
	return order
}

// NormalizeLineItem maps one item object onto model.LineItem. Fields missing on
// the item are looked up on a nested "product" object.
func NormalizeLineItem(obj map[string]any) model.LineItem {
	product, _ := obj["product"].(object)
	if product == nil {
		product = object{}
	}

	item := model.LineItem{
		ProductID: text(obj, "productId", "product_id", "id", "_id"),
		Name:      text(obj, "name", "productName", "title"),
		UnitPrice: money(obj, "unitPrice", "unit_price", "price"),
		Quantity:  count(obj, 1, "quantity", "qty"),
		LineTax:   optionalMoney(obj, "lineTax", "tax"),
		LineVat:   optionalMoney(obj, "lineVat", "vat"),
	}
	if item.ProductID == "" {
		item.ProductID = text(product, "id", "_id")
	}
	if item.Name == "" {
		item.Name = text(product, "name", "title")
	}
	if _, ok := lookup(obj, "unitPrice", "unit_price", "price"); !ok {
		item.UnitPrice = money(product, "price")
	}
	return item
}
