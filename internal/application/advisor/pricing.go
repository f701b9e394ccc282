// Package advisor computes value scores and portfolio-level recommendations
// over a user's policies.
package advisor

import "math"

// Scoring weights and saturation caps.  Each term saturates at its cap, so
// values beyond it contribute no additional score.
const (
	coverageCap   = 1_000_000.0
	premiumCap    = 500.0
	deductibleCap = 10_000.0

	coverageWeight   = 0.5
	premiumWeight    = 0.3
	deductibleWeight = 0.2
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func coverageTerm(coverageLimit float64) float64 {
	return math.Min(coverageCap, coverageLimit) / coverageCap * coverageWeight
}

func premiumTerm(premiumMonthly float64) float64 {
	return math.Max(0, premiumCap-math.Min(premiumCap, premiumMonthly)) / premiumCap * premiumWeight
}

func deductibleTerm(deductible float64) float64 {
	return math.Max(0, deductibleCap-math.Min(deductibleCap, deductible)) / deductibleCap * deductibleWeight
}

// PriceScore computes the 0-100 value score of a policy: higher coverage,
// lower premium, and lower deductible all raise it.  The result is rounded to
// one decimal.
func PriceScore(premiumMonthly, coverageLimit, deductible float64) float64 {
	score := coverageTerm(coverageLimit) + premiumTerm(premiumMonthly) + deductibleTerm(deductible)
	return round1(score * 100)
}

// Contributions breaks a value score into its weighted components for
// explainability.
type Contributions struct {
	CoverageComponent   float64 `json:"coverage_component"`
	PremiumComponent    float64 `json:"premium_component"`
	DeductibleComponent float64 `json:"deductible_component"`
	TotalScore          float64 `json:"total_score"`
}

// FeatureContributions exposes the three weighted sub-scores of PriceScore,
// each on the same 0-100 scale.
func FeatureContributions(premiumMonthly, coverageLimit, deductible float64) Contributions {
	cov := coverageTerm(coverageLimit)
	prem := premiumTerm(premiumMonthly)
	ded := deductibleTerm(deductible)
	return Contributions{
		CoverageComponent:   round1(cov * 100),
		PremiumComponent:    round1(prem * 100),
		DeductibleComponent: round1(ded * 100),
		TotalScore:          round1((cov + prem + ded) * 100),
	}
}
