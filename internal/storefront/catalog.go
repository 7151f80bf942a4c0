package storefront

import (
	"context"

	"Storefront/internal/catalog"
	"Storefront/internal/query"
)

// Catalog is the read contract the HTTP layer serves: the Store's snapshot
// run through the query engine.
type Catalog struct {
	store  *catalog.Store
	picker *query.Picker
}

// NewCatalog wraps store. A nil picker makes random picks unseeded.
func NewCatalog(store *catalog.Store, picker *query.Picker) *Catalog {
	return &Catalog{store: store, picker: picker}
}

func (c *Catalog) All(ctx context.Context) []catalog.Product {
	return c.store.LoadAll(ctx)
}

func (c *Catalog) BySlug(ctx context.Context, slug string) (catalog.Product, bool) {
	return c.store.GetBySlug(ctx, slug)
}

// GetBySlug lets the catalog serve as the forms product lookup.
func (c *Catalog) GetBySlug(ctx context.Context, slug string) (catalog.Product, bool) {
	return c.BySlug(ctx, slug)
}

func (c *Catalog) ByCategory(ctx context.Context, category string) []catalog.Product {
	return query.FilterByCategory(c.store.LoadAll(ctx), category)
}

func (c *Catalog) Search(ctx context.Context, q string, limit int) []catalog.Product {
	return query.Search(c.store.LoadAll(ctx), q, limit)
}

func (c *Catalog) Listing(ctx context.Context, l query.Listing) query.Page {
	return query.List(c.store.LoadAll(ctx), l)
}

func (c *Catalog) Facets(ctx context.Context) query.FacetSet {
	return query.Facets(c.store.LoadAll(ctx))
}

func (c *Catalog) Featured(ctx context.Context, count int) []catalog.Product {
	all := c.store.LoadAll(ctx)
	if c.picker != nil {
		return c.picker.Pick(all, count)
	}
	return query.PickRandom(all, count)
}

func (c *Catalog) Recommended(ctx context.Context, slug string, count int) []catalog.Product {
	return query.Recommend(c.store.LoadAll(ctx), slug, count, c.picker)
}

func (c *Catalog) Invalidate() {
	c.store.Invalidate()
}

func (c *Catalog) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}
