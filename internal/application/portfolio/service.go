// Package portfolio aggregates a user's policies into summary and advisory
// views.
package portfolio

import (
	"context"

	"github.com/ronled86/InsuraIQ/internal/application/advisor"
	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

// TypeTotals aggregates one product type within a portfolio.
type TypeTotals struct {
	Count    int     `json:"count"`
	Premium  float64 `json:"premium"`
	Coverage float64 `json:"coverage"`
}

// Summary is the portfolio rollup: per-type totals plus the overall monthly
// premium spend.
type Summary struct {
	ByType       map[string]TypeTotals `json:"by_type"`
	TotalPremium float64               `json:"total_premium"`
}

// Service serves portfolio summaries and advisory recommendations.
type Service struct {
	repo   policy.Repository
	logger logging.Logger
}

// NewService constructs the portfolio service.
func NewService(repo policy.Repository, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{repo: repo, logger: logger.Named("portfolio")}
}

// Summarize groups the user's policies by product type and totals their
// monthly premiums and coverage limits.
func (s *Service) Summarize(ctx context.Context, userID string) (*Summary, error) {
	policies, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{ByType: make(map[string]TypeTotals)}
	for _, p := range policies {
		totals := summary.ByType[p.ProductType]
		totals.Count++
		totals.Premium += p.PremiumMonthly
		totals.Coverage += p.CoverageLimit
		summary.ByType[p.ProductType] = totals
		summary.TotalPremium += p.PremiumMonthly
	}
	return summary, nil
}

// Recommend runs the advisory analysis (gaps, overlaps, value shortlist)
// over the user's portfolio.
func (s *Service) Recommend(ctx context.Context, userID string) ([]advisor.Recommendation, error) {
	policies, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recs := advisor.Recommend(policies)
	s.logger.Debug("recommendations generated",
		logging.String("user_id", userID),
		logging.Int("count", len(recs)),
	)
	return recs, nil
}

// Score returns the value score for each of the user's policies keyed by
// policy id.
func (s *Service) Score(ctx context.Context, userID string) (map[int64]float64, error) {
	policies, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	scores := make(map[int64]float64, len(policies))
	for _, p := range policies {
		scores[p.ID] = advisor.PriceScore(p.PremiumMonthly, p.CoverageLimit, p.Deductible)
	}
	return scores, nil
}
