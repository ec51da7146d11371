// Package variant resolves attribute selections against a product's variant family.
package variant

import (
	"sort"

	"storefront/internal/model"
)

// ValueSet is a set of attribute values.
type ValueSet map[string]struct{}

// Contains reports whether value is in the set.
func (s ValueSet) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

// Values returns the set members in ascending order.
func (s ValueSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Option is one value of an attribute as presented to the shopper.
// Unavailable values are kept so they can be rendered disabled.
type Option struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// AttributeOptions lists every known value of one attribute.
type AttributeOptions struct {
	Attribute string   `json:"attribute"`
	Options   []Option `json:"options"`
}

// ComputeAvailableOptions returns the values target can take such that at least
// one available variant agrees with selected on every key except target.
// Values carried only by unavailable variants are never included.
func ComputeAvailableOptions(variants []model.Variant, selected model.VariantAttributes, target string) ValueSet {
	out := make(ValueSet)
	for _, v := range variants {
		if !v.Available() {
			continue
		}
		value, ok := v.VariantAttributes[target]
		if !ok {
			continue
		}
		if agreesExcept(v.VariantAttributes, selected, target) {
			out[value] = struct{}{}
		}
	}
	return out
}

// FindMatchingVariant returns the variant whose attributes agree with selected on
// every key present in selected. Keys the variant has beyond selected are ignored.
//
// When several variants match, the one with the fewest attributes (the smallest
// superset of the selection) wins, and catalog order breaks remaining ties.
// The boolean is false when nothing matches; that is a valid "selection
// incomplete" state, not an error.
func FindMatchingVariant(variants []model.Variant, selected model.VariantAttributes) (model.Variant, bool) {
	best := -1
	for i, v := range variants {
		if !v.VariantAttributes.AgreesWith(selected) {
			continue
		}
		if best < 0 || len(v.VariantAttributes) < len(variants[best].VariantAttributes) {
			best = i
		}
	}
	if best < 0 {
		return model.Variant{}, false
	}
	return variants[best], true
}

// AttributeNames returns the union of attribute names across variants, sorted.
func AttributeNames(variants []model.Variant) []string {
	seen := make(map[string]struct{})
	for _, v := range variants {
		for k := range v.VariantAttributes {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// OptionMatrix lists, for every attribute in the family, all values seen on any
// variant along with whether each is selectable given the current selection.
func OptionMatrix(variants []model.Variant, selected model.VariantAttributes) []AttributeOptions {
	names := AttributeNames(variants)
	matrix := make([]AttributeOptions, 0, len(names))
	for _, name := range names {
		all := make(ValueSet)
		for _, v := range variants {
			if value, ok := v.VariantAttributes[name]; ok {
				all[value] = struct{}{}
			}
		}
		available := ComputeAvailableOptions(variants, selected, name)

		options := make([]Option, 0, len(all))
		for _, value := range all.Values() {
			options = append(options, Option{Value: value, Available: available.Contains(value)})
		}
		matrix = append(matrix, AttributeOptions{Attribute: name, Options: options})
	}
	return matrix
}

func agreesExcept(attrs, selected model.VariantAttributes, skip string) bool {
	for k, want := range selected {
		if k == skip {
			continue
		}
		if got, ok := attrs[k]; !ok || got != want {
			return false
		}
	}
	return true
}
