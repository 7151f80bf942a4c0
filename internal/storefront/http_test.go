package storefront

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Storefront/internal/admin"
	"Storefront/internal/catalog"
	"Storefront/internal/forms"
	"Storefront/internal/notify"
	"Storefront/internal/query"
)

const adminSecret = "test-secret"

type fixture struct {
	src    *catalog.MemorySource
	srv    *httptest.Server
	tokens *admin.TokenMaker
}

func put(src *catalog.MemorySource, slug, title, brand, category, condition string, price, rating float64) {
	src.Put(slug, []byte(fmt.Sprintf(
		`{"slug":%q,"title":%q,"description":"desc of %s","brand":%q,"category":%q,"condition":%q,"price":%v,"rating":%v,"reviewCount":3,"images":["/%s.jpg"],"checkoutLink":"https://pay.example.com/%s"}`,
		slug, title, title, brand, category, condition, price, rating, slug, slug)))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	src := catalog.NewMemorySource()
	put(src, "g7x-camera", "Canon G7X", "Canon", "Cameras", "Used", 450, 4.7)
	put(src, "airpods-pro", "AirPods Pro", "Apple", "Audio", "New", 199, 4.8)
	put(src, "sony-a7", "Sony Alpha 7", "Sony", "Cameras", "Refurbished", 1200, 4.6)
	put(src, "wh-1000xm5", "WH-1000XM5", "Sony", "Audio", "New", 349, 4.9)

	tokens := admin.NewTokenMaker(adminSecret)
	cat := NewCatalog(catalog.NewStore(src), query.NewPicker(1))

	s := &Server{
		Catalog: cat,
		Forms: &forms.Server{
			Products: cat,
			Mailer:   notify.NewLogMailer(zap.NewNop()),
			Visits:   notify.NewLogVisitLogger(zap.NewNop()),
		},
		Tokens:  tokens,
		SiteURL: "https://shop.example.com",
		Log:     zap.NewNop(),
	}

	reg := prometheus.NewRegistry()
	h := NewHandler(s, HTTPDeps{
		Log:            zap.NewNop(),
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   "metrics-token",
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &fixture{src: src, srv: srv, tokens: tokens}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(f.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (f *fixture) products(t *testing.T, path string) []catalog.Product {
	t.Helper()
	resp, body := f.get(t, path)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out []catalog.Product
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func slugs(ps []catalog.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Slug
	}
	return out
}

func TestProducts_ListAndGet(t *testing.T) {
	f := newFixture(t)

	all := f.products(t, "/api/products")
	assert.Equal(t, []string{"g7x-camera", "airpods-pro", "sony-a7", "wh-1000xm5"}, slugs(all))
	assert.Equal(t, "USD", all[0].Currency)

	resp, body := f.get(t, "/api/products/g7x-camera")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p catalog.Product
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, all[0], p)
	assert.Contains(t, string(body), `"reviews":[]`)
	assert.Contains(t, string(body), `"meta":{}`)

	resp, body = f.get(t, "/api/products/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error":"product not found"`)
}

func TestProducts_Categories(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"g7x-camera", "sony-a7"}, slugs(f.products(t, "/api/products/categories?category=cameras")))

	resp, body := f.get(t, "/api/products/categories?category=")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	_, body = f.get(t, "/api/products/categories")
	assert.JSONEq(t, `[]`, string(body))
}

func TestProducts_Search(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"g7x-camera"}, slugs(f.products(t, "/api/products/search?q=G7X")))
	assert.Equal(t, []string{"sony-a7"}, slugs(f.products(t, "/api/products/search?q=sony&limit=1")))

	_, body := f.get(t, "/api/products/search?q=")
	assert.JSONEq(t, `[]`, string(body))

	for _, bad := range []string{"abc", "0", "-3"} {
		resp, _ := f.get(t, "/api/products/search?q=sony&limit="+bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestProducts_Listing(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/api/products/listing")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page query.Page
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, []string{"sony-a7", "g7x-camera", "wh-1000xm5", "airpods-pro"}, slugs(page.Items))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 12, page.PageSize)

	_, body = f.get(t, "/api/products/listing?brand=Sony,Apple&condition=New&max=300&sort=price-low")
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, []string{"airpods-pro"}, slugs(page.Items))

	_, body = f.get(t, "/api/products/listing?brand=Sony&brand=Canon&sort=featured&pageSize=1&page=2")
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, []string{"sony-a7"}, slugs(page.Items))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	for _, bad := range []string{"sort=newest", "min=cheap", "max=-1", "page=0", "pageSize=1000"} {
		resp, _ := f.get(t, "/api/products/listing?"+bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestProducts_Facets(t *testing.T) {
	f := newFixture(t)

	_, body := f.get(t, "/api/products/facets")
	var fs query.FacetSet
	require.NoError(t, json.Unmarshal(body, &fs))
	assert.Equal(t, []string{"Canon", "Apple", "Sony"}, fs.Brands)
	assert.Equal(t, 199.0, fs.MinPrice)
	assert.Equal(t, 1200.0, fs.MaxPrice)
}

func TestProducts_FeaturedAndRecommended(t *testing.T) {
	f := newFixture(t)

	featured := f.products(t, "/api/products/featured")
	assert.Len(t, featured, 4)
	assert.ElementsMatch(t, []string{"g7x-camera", "airpods-pro", "sony-a7", "wh-1000xm5"}, slugs(featured))

	assert.Len(t, f.products(t, "/api/products/featured?count=2"), 2)

	rec := f.products(t, "/api/products/g7x-camera/recommended")
	assert.Len(t, rec, 3)
	assert.NotContains(t, slugs(rec), "g7x-camera")

	resp, _ := f.get(t, "/api/products/featured?count=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSitemap(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/sitemap.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/xml"))

	var set urlSet
	require.NoError(t, xml.Unmarshal(body, &set))
	require.Len(t, set.URLs, 7)
	assert.Equal(t, "https://shop.example.com", set.URLs[0].Loc)
	assert.Equal(t, 1.0, set.URLs[0].Priority)
	assert.Equal(t, "https://shop.example.com/#products", set.URLs[1].Loc)
	assert.Equal(t, "https://shop.example.com/products/g7x-camera", set.URLs[3].Loc)
	assert.Equal(t, "weekly", set.URLs[3].ChangeFreq)
	assert.Equal(t, 0.7, set.URLs[3].Priority)
}

func TestBuildSitemap_EscapesSlugs(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	set := buildSitemap("https://shop.example.com/", []catalog.Product{{Slug: "lens kit?v2"}}, now)

	require.Len(t, set.URLs, 4)
	assert.Equal(t, "https://shop.example.com/products/lens%20kit%3Fv2", set.URLs[3].Loc)
	assert.Equal(t, "2025-06-01", set.URLs[3].LastMod)
}

func TestAdminInvalidate(t *testing.T) {
	f := newFixture(t)

	assert.Len(t, f.products(t, "/api/products"), 4)
	put(f.src, "oura-ring", "Oura Ring", "Oura", "Wearables", "New", 299, 4.5)
	assert.Len(t, f.products(t, "/api/products"), 4, "cached")

	post := func(token string) int {
		req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/admin/catalog/invalidate", nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, post(""))

	viewer, err := f.tokens.New("intern", "viewer", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, post(viewer))

	tok, err := f.tokens.New("ops", admin.RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, post(tok))

	assert.Len(t, f.products(t, "/api/products"), 5)
}

func TestHealthAndReadiness(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.get(t, "/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	f.src.SetErr(errors.New("disk gone"))
	resp, _ = f.get(t, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, body := f.get(t, "/api/products")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "data hiccups never become a 500")
	assert.JSONEq(t, `[]`, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.products(t, "/api/products/g7x-camera/recommended")

	resp, _ := f.get(t, "/metrics")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer metrics-token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `path="/api/products/{slug}/recommended"`)
}

func TestFormsAreMounted(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Post(f.srv.URL+"/api/send-shipping-email", "application/json", strings.NewReader(`{
		"shippingData": {"streetAddress": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "62701", "email": "buyer@example.com"},
		"product": {"slug": "sony-a7"}
	}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://pay.example.com/sony-a7", body["checkoutLink"])
}

func TestUnknownRoutesAnswerJSON(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), `"error":"route not found"`)

	resp, err := http.Post(f.srv.URL+"/api/products", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
