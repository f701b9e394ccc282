package http

import (
	"net/http"

	"github.com/ronled86/InsuraIQ/internal/config"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
	"github.com/ronled86/InsuraIQ/internal/interfaces/http/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Policies   *PolicyHandler
	Comparison *ComparisonHandler
	Advisor    *AdvisorHandler
	Quotes     *QuotesHandler
	Health     *HealthHandler
	Metrics    *prometheus.Metrics
	Config     *config.Config
	Logger     logging.Logger
}

// NewRouter builds the full HTTP handler: routes plus the middleware chain
// (recovery outermost, then request logging, metrics, and auth).
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}

	mux := http.NewServeMux()

	openPaths := []string{"/healthz", "/readyz"}
	mux.HandleFunc("GET /healthz", deps.Health.liveness)
	mux.HandleFunc("GET /readyz", deps.Health.readiness)
	if deps.Metrics != nil && deps.Config.Monitoring.Enabled {
		path := deps.Config.Monitoring.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, deps.Metrics.Handler())
		openPaths = append(openPaths, path)
	}

	mux.HandleFunc("POST /api/policies", deps.Policies.create)
	mux.HandleFunc("GET /api/policies", deps.Policies.list)
	mux.HandleFunc("GET /api/policies/{id}", deps.Policies.get)
	mux.HandleFunc("PUT /api/policies/{id}", deps.Policies.update)
	mux.HandleFunc("DELETE /api/policies/{id}", deps.Policies.delete)
	mux.HandleFunc("POST /api/policies/upload", deps.Policies.uploadCSV)
	mux.HandleFunc("POST /api/policies/import/document", deps.Policies.importDocument)
	mux.HandleFunc("GET /api/policies/{id}/document", deps.Policies.downloadDocument)

	mux.HandleFunc("POST /api/compare", deps.Comparison.compare)
	mux.HandleFunc("GET /api/compare/history", deps.Comparison.history)

	mux.HandleFunc("GET /api/portfolio/summary", deps.Advisor.summary)
	mux.HandleFunc("GET /api/advisor/recommendations", deps.Advisor.recommendations)
	mux.HandleFunc("GET /api/advisor/scores", deps.Advisor.scores)

	mux.HandleFunc("GET /api/quotes", deps.Quotes.fetch)

	chain := []middleware.Middleware{
		middleware.Recovery(deps.Logger),
		middleware.RequestLogging(deps.Logger, middleware.DefaultLoggingConfig()),
	}
	if deps.Metrics != nil {
		chain = append(chain, middleware.Metrics(deps.Metrics))
	}
	chain = append(chain, middleware.Auth(deps.Config.Auth, openPaths...))

	return middleware.Chain(mux, chain...)
}
