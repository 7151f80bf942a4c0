package storefront

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

const (
	ServiceName = "storefront"

	defaultRequestTimeout = 15 * time.Second
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	// RequestTimeout bounds each request; zero means defaultRequestTimeout.
	RequestTimeout time.Duration

	MetricsEnabled bool
	MetricsToken   string
}

// NewHandler wraps the storefront routes with request ids, recovery, access
// logging, metrics and a per-request deadline. Unknown routes answer JSON.
func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Service == "" {
		deps.Service = ServiceName
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, kit.Recoverer, kit.Logging(deps.Log))

	if deps.Registry != nil {
		m := kit.NewMetrics(deps.Registry)
		r.Use(m.Middleware(deps.Service, kit.RoutePattern))
	} else if deps.MetricsEnabled {
		deps.Log.Warn("metrics enabled but Registry is nil")
	}

	r.Use(chimw.Timeout(deps.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, http.StatusNotFound, "route not found", map[string]any{"path": r.URL.Path})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed", map[string]any{"method": r.Method})
	})

	if deps.Registry != nil && deps.MetricsEnabled {
		r.With(kit.BearerAuth(deps.MetricsToken)).
			Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Mount("/", s.Routes())
	return r
}
