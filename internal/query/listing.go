package query

import (
	"strings"

	"Storefront/internal/catalog"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
	DefaultSort     = SortPriceHigh
)

// Listing describes one view of the product grid.
type Listing struct {
	Search     string
	Brands     []string
	Conditions []string
	MinPrice   *float64
	MaxPrice   *float64
	Sort       SortKey
	Page       int
	PageSize   int
}

type Page struct {
	Items      []catalog.Product `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

func (l Listing) withDefaults() Listing {
	if l.Page < 1 {
		l.Page = 1
	}
	if l.PageSize <= 0 {
		l.PageSize = DefaultPageSize
	}
	if l.PageSize > MaxPageSize {
		l.PageSize = MaxPageSize
	}
	if l.Sort == "" {
		l.Sort = DefaultSort
	}
	return l
}

// List applies the grid pipeline: text search over title and description,
// brands, conditions, price range, sort, then pagination. Unlike Search, an
// empty search term does not filter.
func List(products []catalog.Product, l Listing) Page {
	l = l.withDefaults()

	out := nonNil(products)
	if q := strings.ToLower(strings.TrimSpace(l.Search)); q != "" {
		out = filter(out, func(p catalog.Product) bool {
			return containsFold(q, p.Title, p.Description)
		})
	}
	out = FilterByBrand(out, l.Brands)
	out = FilterByCondition(out, l.Conditions)
	out = FilterByPriceRange(out, l.MinPrice, l.MaxPrice)
	out = Sort(out, l.Sort)

	return Page{
		Items:      Paginate(out, l.PageSize, l.Page),
		Total:      len(out),
		Page:       l.Page,
		PageSize:   l.PageSize,
		TotalPages: TotalPages(len(out), l.PageSize),
	}
}
