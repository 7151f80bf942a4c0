package query

import (
	"cmp"
	"slices"

	"Storefront/internal/catalog"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

func ValidSortKeys() []SortKey {
	return []SortKey{SortFeatured, SortPriceLow, SortPriceHigh, SortRating}
}

// ParseSortKey reports false for anything but a known key.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(s)
	return k, slices.Contains(ValidSortKeys(), k)
}

// Sort orders a copy of products by key. The sort is stable, so ties keep
// catalog order. Featured and unknown keys leave the order as is.
func Sort(products []catalog.Product, key SortKey) []catalog.Product {
	out := slices.Clone(nonNil(products))

	switch key {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	}
	return out
}
