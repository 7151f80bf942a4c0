package storefront

import (
	"context"
	"encoding/xml"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/admin"
	"Storefront/internal/forms"
	"Storefront/internal/query"
	"Storefront/pkg/kit"
)

const (
	defaultSearchLimit = 10
	defaultPickCount   = 4
	maxPickCount       = 50
)

type Server struct {
	Catalog *Catalog
	Forms   *forms.Server
	Tokens  *admin.TokenMaker
	SiteURL string
	Log     *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Catalog.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/sitemap.xml", s.sitemap)

	r.Route("/api", func(api chi.Router) {
		api.Route("/products", func(pr chi.Router) {
			pr.Get("/", s.list)
			pr.Get("/categories", s.byCategory)
			pr.Get("/search", s.search)
			pr.Get("/listing", s.listing)
			pr.Get("/facets", s.facets)
			pr.Get("/featured", s.featured)
			pr.Get("/{slug}", s.get)
			pr.Get("/{slug}/recommended", s.recommended)
		})

		if s.Forms != nil {
			s.Forms.Register(api)
		}
	})

	if s.Tokens != nil {
		r.With(admin.Require(s.Tokens)).Post("/admin/catalog/invalidate", s.invalidate)
	}

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.All(r.Context()))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, ok := s.Catalog.BySlug(r.Context(), slug)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"slug": slug})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) byCategory(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.ByCategory(r.Context(), r.URL.Query().Get("category")))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", defaultSearchLimit, 1, 0)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Search(r.Context(), r.URL.Query().Get("q"), limit))
}

func (s *Server) listing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	l := query.Listing{
		Search:     q.Get("search"),
		Brands:     multiParam(q["brand"]),
		Conditions: multiParam(q["condition"]),
	}

	var ok bool
	if l.MinPrice, ok = floatParam(w, r, "min"); !ok {
		return
	}
	if l.MaxPrice, ok = floatParam(w, r, "max"); !ok {
		return
	}
	if l.Page, ok = intParam(w, r, "page", 1, 1, 0); !ok {
		return
	}
	if l.PageSize, ok = intParam(w, r, "pageSize", query.DefaultPageSize, 1, query.MaxPageSize); !ok {
		return
	}

	if raw := q.Get("sort"); raw != "" {
		key, valid := query.ParseSortKey(raw)
		if !valid {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid sort", map[string]any{"sort": raw, "allowed": query.ValidSortKeys()})
			return
		}
		l.Sort = key
	}

	kit.WriteJSON(w, http.StatusOK, s.Catalog.Listing(r.Context(), l))
}

func (s *Server) facets(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Facets(r.Context()))
}

func (s *Server) featured(w http.ResponseWriter, r *http.Request) {
	count, ok := intParam(w, r, "count", defaultPickCount, 1, maxPickCount)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Featured(r.Context(), count))
}

func (s *Server) recommended(w http.ResponseWriter, r *http.Request) {
	count, ok := intParam(w, r, "count", defaultPickCount, 1, maxPickCount)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Recommended(r.Context(), chi.URLParam(r, "slug"), count))
}

func (s *Server) sitemap(w http.ResponseWriter, r *http.Request) {
	set := buildSitemap(s.SiteURL, s.Catalog.All(r.Context()), time.Now())

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(set); err != nil && s.Log != nil {
		s.Log.Error("encode sitemap failed", zap.Error(err))
	}
}

func (s *Server) invalidate(w http.ResponseWriter, r *http.Request) {
	s.Catalog.Invalidate()

	if s.Log != nil {
		claims, _ := admin.ClaimsFromContext(r.Context())
		s.Log.Info("catalog invalidated", zap.String("by", claims.Subject))
	}
	w.WriteHeader(http.StatusNoContent)
}

// intParam reads an integer query parameter. Absent means def; values below lo
// or above hi (when hi > 0) answer 400.
func intParam(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi > 0 && n > hi) {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid "+name, map[string]any{name: raw})
		return 0, false
	}
	return n, true
}

func floatParam(w http.ResponseWriter, r *http.Request, name string) (*float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid "+name, map[string]any{name: raw})
		return nil, false
	}
	return &f, true
}

// multiParam accepts both repeated parameters and comma separated lists.
func multiParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
