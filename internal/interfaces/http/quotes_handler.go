package http

import (
	"net/http"
	"strconv"

	"github.com/ronled86/InsuraIQ/internal/application/quotes"
	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

// QuotesHandler serves indicative quote requests.
type QuotesHandler struct {
	svc    *quotes.Service
	logger logging.Logger
}

// NewQuotesHandler constructs the quotes handler.
func NewQuotesHandler(svc *quotes.Service, logger logging.Logger) *QuotesHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &QuotesHandler{svc: svc, logger: logger.Named("http.quotes")}
}

func (h *QuotesHandler) fetch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := quotes.Request{
		ProductType:   policy.NormalizeProduct(q.Get("product_type")),
		CoverageLimit: 100000,
		Deductible:    500,
	}
	if req.ProductType == "" {
		req.ProductType = "auto"
	}
	if raw := q.Get("coverage_limit"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			writeBadRequest(w, "coverage_limit must be a non-negative number")
			return
		}
		req.CoverageLimit = v
	}
	if raw := q.Get("deductible"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			writeBadRequest(w, "deductible must be a non-negative number")
			return
		}
		req.Deductible = v
	}

	writeJSON(w, http.StatusOK, h.svc.Fetch(r.Context(), req))
}
