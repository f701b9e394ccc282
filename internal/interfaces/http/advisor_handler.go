package http

import (
	"net/http"

	"github.com/ronled86/InsuraIQ/internal/application/advisor"
	"github.com/ronled86/InsuraIQ/internal/application/portfolio"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/interfaces/http/middleware"
)

// AdvisorHandler serves the portfolio summary and advisory endpoints.
type AdvisorHandler struct {
	svc    *portfolio.Service
	logger logging.Logger
}

// NewAdvisorHandler constructs the advisor handler.
func NewAdvisorHandler(svc *portfolio.Service, logger logging.Logger) *AdvisorHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AdvisorHandler{svc: svc, logger: logger.Named("http.advisor")}
}

func (h *AdvisorHandler) summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.ContextGetUserID(r.Context())
	s, err := h.svc.Summarize(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AdvisorHandler) recommendations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.ContextGetUserID(r.Context())
	recs, err := h.svc.Recommend(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if recs == nil {
		recs = []advisor.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *AdvisorHandler) scores(w http.ResponseWriter, r *http.Request) {
	userID := middleware.ContextGetUserID(r.Context())
	scores, err := h.svc.Score(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}
