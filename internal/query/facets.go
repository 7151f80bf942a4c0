package query

import "Storefront/internal/catalog"

// FacetSet lists the values the grid can filter on, in first-seen order.
type FacetSet struct {
	Brands     []string `json:"brands"`
	Conditions []string `json:"conditions"`
	Categories []string `json:"categories"`
	MinPrice   float64  `json:"minPrice"`
	MaxPrice   float64  `json:"maxPrice"`
}

func Facets(products []catalog.Product) FacetSet {
	fs := FacetSet{
		Brands:     distinct(products, func(p catalog.Product) string { return p.Brand }),
		Conditions: distinct(products, func(p catalog.Product) string { return p.Condition }),
		Categories: distinct(products, func(p catalog.Product) string { return p.Category }),
	}

	for i, p := range products {
		if i == 0 || p.Price < fs.MinPrice {
			fs.MinPrice = p.Price
		}
		if i == 0 || p.Price > fs.MaxPrice {
			fs.MaxPrice = p.Price
		}
	}
	return fs
}

func distinct(products []catalog.Product, field func(catalog.Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
