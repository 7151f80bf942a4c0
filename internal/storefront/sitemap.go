package storefront

import (
	"encoding/xml"
	"net/url"
	"strings"
	"time"

	"Storefront/internal/catalog"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

// buildSitemap lists the landing page anchors followed by one entry per product.
func buildSitemap(base string, products []catalog.Product, now time.Time) urlSet {
	base = strings.TrimSuffix(base, "/")
	lastMod := now.UTC().Format("2006-01-02")

	set := urlSet{
		NS: sitemapNS,
		URLs: []sitemapURL{
			{Loc: base, LastMod: lastMod, ChangeFreq: "daily", Priority: 1},
			{Loc: base + "/#products", LastMod: lastMod, ChangeFreq: "daily", Priority: 0.9},
			{Loc: base + "/#featured", LastMod: lastMod, ChangeFreq: "daily", Priority: 0.8},
		},
	}

	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/products/" + url.PathEscape(p.Slug),
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   0.7,
		})
	}
	return set
}
