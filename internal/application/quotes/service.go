// Package quotes fetches indicative quotes from an external aggregator, with
// a deterministic built-in generator as fallback.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
)

// Quote is one indicative offer.
type Quote struct {
	Insurer    string  `json:"insurer"`
	Monthly    float64 `json:"monthly"`
	Deductible float64 `json:"deductible"`
	Coverage   float64 `json:"coverage"`
}

// Request carries the quote parameters.
type Request struct {
	ProductType   string
	CoverageLimit float64
	Deductible    float64
}

// Config configures the quote service.
type Config struct {
	// ExternalURL is the aggregator base URL; empty disables external calls.
	ExternalURL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey  string
	Timeout time.Duration
}

// Service serves quote requests.  External aggregator failures silently fall
// back to the deterministic generator, so Fetch never returns an empty list.
type Service struct {
	cfg     Config
	client  *http.Client
	logger  logging.Logger
	metrics *prometheus.Metrics
}

// Option customizes the quote service.
type Option func(*Service)

// WithMetrics attaches the metrics registry.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the quote service.
func NewService(cfg Config, logger logging.Logger, opts ...Option) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("quotes"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns quotes for the request, preferring the external aggregator
// when configured and reachable.
func (s *Service) Fetch(ctx context.Context, req Request) []Quote {
	if s.cfg.ExternalURL != "" {
		if quotes, err := s.fetchExternal(ctx, req); err == nil {
			s.metrics.RecordQuoteRequest("external")
			return quotes
		} else {
			s.logger.Warn("external quote source failed, using fallback", logging.Err(err))
		}
	}
	s.metrics.RecordQuoteRequest("fallback")
	return FallbackQuotes(req)
}

func (s *Service) fetchExternal(ctx context.Context, req Request) ([]Quote, error) {
	u, err := url.Parse(s.cfg.ExternalURL + "/quotes")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("type", req.ProductType)
	q.Set("coverage", fmt.Sprintf("%g", req.CoverageLimit))
	q.Set("deductible", fmt.Sprintf("%g", req.Deductible))
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if s.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote source returned status %d", resp.StatusCode)
	}

	var quotes []Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	return quotes, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FallbackQuotes generates three deterministic demo offers around a base
// price derived from the requested coverage and deductible.
func FallbackQuotes(req Request) []Quote {
	base := math.Max(20.0, req.CoverageLimit/10000.0-req.Deductible/1000.0)
	return []Quote{
		{Insurer: "Alpha", Monthly: round2(base * 1.0), Deductible: req.Deductible, Coverage: req.CoverageLimit},
		{Insurer: "Beta", Monthly: round2(base * 0.95), Deductible: req.Deductible * 1.2, Coverage: req.CoverageLimit * 0.98},
		{Insurer: "Gamma", Monthly: round2(base * 1.1), Deductible: req.Deductible * 0.8, Coverage: req.CoverageLimit * 1.05},
	}
}
