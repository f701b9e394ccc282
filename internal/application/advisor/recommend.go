package advisor

import (
	"fmt"
	"sort"

	"github.com/ronled86/InsuraIQ/internal/domain/policy"
)

// Recommendation is the uniform advisory shape emitted by the gap, overlap,
// and shortlist analyses.
type Recommendation struct {
	Title       string         `json:"title"`
	Reason      string         `json:"reason"`
	Impact      string         `json:"impact"`
	Explanation map[string]any `json:"explanation"`
}

// coverageUniverse is the fixed set of product types every household is
// expected to hold.
var coverageUniverse = []string{"auto", "disability", "health", "home", "life"}

// FindGaps emits one Recommendation per product type from the coverage
// universe that no active policy covers, ordered alphabetically by type.
// Inactive policies do not count as coverage.
func FindGaps(policies []*policy.Policy) []Recommendation {
	held := make(map[string]struct{})
	for _, p := range policies {
		if p.Active {
			held[p.ProductType] = struct{}{}
		}
	}
	out := make([]Recommendation, 0)
	for _, t := range coverageUniverse {
		if _, ok := held[t]; ok {
			continue
		}
		out = append(out, Recommendation{
			Title:       fmt.Sprintf("Consider adding %s coverage", t),
			Reason:      fmt.Sprintf("No active %s policy detected", t),
			Impact:      "Risk exposure if an event occurs without coverage",
			Explanation: map[string]any{"missing_type": t},
		})
	}
	return out
}

// FindOverlaps groups all policies, active or not, by product type and emits
// one Recommendation per group holding more than one policy.
func FindOverlaps(policies []*policy.Policy) []Recommendation {
	byType := make(map[string][]*policy.Policy)
	for _, p := range policies {
		byType[p.ProductType] = append(byType[p.ProductType], p)
	}
	types := make([]string, 0, len(byType))
	for t, items := range byType {
		if len(items) > 1 {
			types = append(types, t)
		}
	}
	sort.Strings(types)

	out := make([]Recommendation, 0, len(types))
	for _, t := range types {
		items := byType[t]
		ids := make([]int64, 0, len(items))
		for _, p := range items {
			if p.ID != 0 {
				ids = append(ids, p.ID)
			}
		}
		out = append(out, Recommendation{
			Title:       fmt.Sprintf("Overlap in %s policies", t),
			Reason:      fmt.Sprintf("You have %d %s policies", len(items), t),
			Impact:      "You may be overpaying, consider consolidating",
			Explanation: map[string]any{"count": len(items), "policy_ids": ids},
		})
	}
	return out
}

// ShortlistValue scores every policy, sorts descending by score, and emits a
// Recommendation for each of the top 3 with the score breakdown attached.
func ShortlistValue(policies []*policy.Policy) []Recommendation {
	type scored struct {
		score   float64
		p       *policy.Policy
		contrib Contributions
	}
	items := make([]scored, 0, len(policies))
	for _, p := range policies {
		items = append(items, scored{
			score:   PriceScore(p.PremiumMonthly, p.CoverageLimit, p.Deductible),
			p:       p,
			contrib: FeatureContributions(p.PremiumMonthly, p.CoverageLimit, p.Deductible),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
	if len(items) > 3 {
		items = items[:3]
	}

	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		out = append(out, Recommendation{
			Title:  fmt.Sprintf("Good value candidate: %s %s", it.p.Insurer, it.p.ProductType),
			Reason: fmt.Sprintf("Score %.1f based on coverage, premium, deductible", it.score),
			Impact: "Consider keeping or negotiating a better rate",
			Explanation: map[string]any{
				"coverage_component":   it.contrib.CoverageComponent,
				"premium_component":    it.contrib.PremiumComponent,
				"deductible_component": it.contrib.DeductibleComponent,
				"total_score":          it.contrib.TotalScore,
			},
		})
	}
	return out
}

// Recommend produces the full advisory list: gaps first, then overlaps, then
// the value shortlist.
func Recommend(policies []*policy.Policy) []Recommendation {
	out := FindGaps(policies)
	out = append(out, FindOverlaps(policies)...)
	out = append(out, ShortlistValue(policies)...)
	return out
}
