package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

// ReadinessCheck probes one dependency. A nil error means ready.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version string
	checks  map[string]ReadinessCheck
	logger  logging.Logger
}

// NewHealthHandler constructs the health handler with named dependency
// checks, typically "database" and "cache".
func NewHealthHandler(version string, checks map[string]ReadinessCheck, logger logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HealthHandler{version: version, checks: checks, logger: logger.Named("http.health")}
}

func (h *HealthHandler) liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
			h.logger.Warn("readiness check failed",
				logging.String("dependency", name), logging.Err(err))
			continue
		}
		deps[name] = "ok"
	}

	body := map[string]any{"dependencies": deps}
	if status == http.StatusOK {
		body["status"] = "ready"
	} else {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}
