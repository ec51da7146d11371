package ingest

import "storefront/internal/model"

// DecodeCatalog parses a catalog backend product response
// ({"data": {"product", "variants", "variant_options"}}) into a model.CatalogPayload.
func DecodeCatalog(data []byte) (model.CatalogPayload, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return model.CatalogPayload{}, err
	}
	return NormalizeCatalog(obj), nil
}

// NormalizeCatalog maps an already-decoded catalog object onto model.CatalogPayload.
func NormalizeCatalog(obj map[string]any) model.CatalogPayload {
	obj = unwrap(obj, "data")

	var payload model.CatalogPayload
	if product, ok := obj["product"].(object); ok {
		v := NormalizeVariant(product)
		payload.Product = &v
	}

	rawVariants, _ := lookup(obj, "variants")
	list, _ := rawVariants.([]any)
	payload.Variants = make([]model.Variant, 0, len(list))
	for _, raw := range list {
		if v, ok := raw.(object); ok {
			payload.Variants = append(payload.Variants, NormalizeVariant(v))
		}
	}

	if rawOptions, ok := lookup(obj, "variant_options", "variantOptions"); ok {
		payload.VariantOptions = normalizeOptions(rawOptions)
	}
	return payload
}

// NormalizeVariant maps one variant or product object onto model.Variant.
func NormalizeVariant(obj map[string]any) model.Variant {
	v := model.Variant{
		ID:                text(obj, "id", "_id"),
		Slug:              text(obj, "slug"),
		VariantAttributes: model.VariantAttributes{},
		StockQuantity:     count(obj, 0, "stockQuantity", "stock_quantity", "stock"),
		Status:            text(obj, "status"),
		Price:             money(obj, "price"),
		ParentProductID:   text(obj, "parentProductId", "parent_product_id", "parentId"),
	}

	if rawAttrs, ok := lookup(obj, "variantAttributes", "variant_attributes", "attributes"); ok {
		if attrs, ok := rawAttrs.(object); ok {
			for k, raw := range attrs {
				if s := stringify(raw); s != "" {
					v.VariantAttributes[k] = s
				}
			}
		}
	}
	return v
}

func normalizeOptions(raw any) map[string][]string {
	obj, ok := raw.(object)
	if !ok {
		return nil
	}
	out := make(map[string][]string, len(obj))
	for name, rawValues := range obj {
		list, ok := rawValues.([]any)
		if !ok {
			continue
		}
		values := make([]string, 0, len(list))
		for _, rv := range list {
			if entry, ok := rv.(object); ok {
				rv = entry["value"]
			}
			if s := stringify(rv); s != "" {
				values = append(values, s)
			}
		}
		out[name] = values
	}
	return out
}
