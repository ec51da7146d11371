package variant

import (
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/model"
)

const productPathPrefix = "/product/"

// GenerateProductURL returns the canonical product page path. Slug and id are
// assumed to be URL-safe already.
func GenerateProductURL(productID, slug string) string {
	if productID == "" {
		return productPathPrefix + slug
	}
	return fmt.Sprintf("%s%s?pid=%s", productPathPrefix, slug, productID)
}

// GenerateVariantURL returns the canonical path of a variant. A variant without
// id or slug cannot be deep-linked and yields *model.MissingVariantIdentityError.
func GenerateVariantURL(v model.Variant) (string, error) {
	if v.ID == "" || v.Slug == "" {
		return "", &model.MissingVariantIdentityError{
			MissingID:   v.ID == "",
			MissingSlug: v.Slug == "",
		}
	}
	return GenerateProductURL(v.ID, v.Slug), nil
}

// ParseProductURL extracts the slug and product id from a path produced by
// GenerateProductURL. ok is false when the path is not a product path.
func ParseProductURL(raw string) (slug, productID string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasPrefix(u.Path, productPathPrefix) {
		return "", "", false
	}
	slug = strings.TrimPrefix(u.Path, productPathPrefix)
	if slug == "" {
		return "", "", false
	}
	return slug, u.Query().Get("pid"), true
}
