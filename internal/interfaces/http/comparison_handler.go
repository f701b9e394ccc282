package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ronled86/InsuraIQ/internal/application/comparison"
	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/interfaces/http/middleware"
)

const defaultHistoryLimit = 10

// ComparisonHandler serves the comparison endpoints.
type ComparisonHandler struct {
	svc    *comparison.Service
	logger logging.Logger
}

// NewComparisonHandler constructs the comparison handler.
func NewComparisonHandler(svc *comparison.Service, logger logging.Logger) *ComparisonHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ComparisonHandler{svc: svc, logger: logger.Named("http.comparison")}
}

type compareRequest struct {
	PolicyIDs []int64 `json:"policy_ids"`
}

func (h *ComparisonHandler) compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	userID := middleware.ContextGetUserID(r.Context())
	result, err := h.svc.CompareByIDs(r.Context(), userID, req.PolicyIDs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ComparisonHandler) history(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		if n > 50 {
			n = 50
		}
		limit = n
	}

	userID := middleware.ContextGetUserID(r.Context())
	records, err := h.svc.History(r.Context(), userID, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if records == nil {
		records = []*policy.CompareRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
