// Package query derives filtered, sorted and paginated views of the catalog.
// Every function returns a new slice and leaves its input untouched.
package query

import (
	"slices"
	"strings"

	"Storefront/internal/catalog"
)

// FilterByCategory matches category case-insensitively. A blank category matches nothing.
func FilterByCategory(products []catalog.Product, category string) []catalog.Product {
	if strings.TrimSpace(category) == "" {
		return []catalog.Product{}
	}
	return filter(products, func(p catalog.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// Search returns at most limit products whose title, description, brand or
// category contains q, ignoring case. q is matched as given, surrounding
// spaces included. A blank q or a non-positive limit matches nothing.
func Search(products []catalog.Product, q string, limit int) []catalog.Product {
	if strings.TrimSpace(q) == "" || limit <= 0 {
		return []catalog.Product{}
	}
	q = strings.ToLower(q)

	out := make([]catalog.Product, 0, min(limit, len(products)))
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if containsFold(q, p.Title, p.Description, p.Brand, p.Category) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByBrand keeps products whose brand is one of brands. No brands means no filtering.
func FilterByBrand(products []catalog.Product, brands []string) []catalog.Product {
	if len(brands) == 0 {
		return slices.Clone(nonNil(products))
	}
	return filter(products, func(p catalog.Product) bool {
		return slices.Contains(brands, p.Brand)
	})
}

// FilterByCondition keeps products whose condition is one of conditions. No conditions means no filtering.
func FilterByCondition(products []catalog.Product, conditions []string) []catalog.Product {
	if len(conditions) == 0 {
		return slices.Clone(nonNil(products))
	}
	return filter(products, func(p catalog.Product) bool {
		return slices.Contains(conditions, p.Condition)
	})
}

// FilterByPriceRange applies inclusive bounds; a nil bound is open.
func FilterByPriceRange(products []catalog.Product, minPrice, maxPrice *float64) []catalog.Product {
	return filter(products, func(p catalog.Product) bool {
		if minPrice != nil && p.Price < *minPrice {
			return false
		}
		if maxPrice != nil && p.Price > *maxPrice {
			return false
		}
		return true
	})
}

func filter(products []catalog.Product, keep func(catalog.Product) bool) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// containsFold reports whether any field contains lowered, which must already be lower case.
func containsFold(lowered string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowered) {
			return true
		}
	}
	return false
}

func nonNil(products []catalog.Product) []catalog.Product {
	if products == nil {
		return []catalog.Product{}
	}
	return products
}
