package query

import (
	"slices"

	"Storefront/internal/catalog"
)

// Paginate returns the 1-indexed page of size pageSize. Pages past the end,
// page numbers below 1 and non-positive sizes all yield an empty slice.
func Paginate(products []catalog.Product, pageSize, page int) []catalog.Product {
	if pageSize <= 0 || page < 1 || page > TotalPages(len(products), pageSize) {
		return []catalog.Product{}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(products))
	return slices.Clone(products[start:end])
}

func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total-1)/pageSize + 1
}
