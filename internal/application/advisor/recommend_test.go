package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronled86/InsuraIQ/internal/domain/policy"
)

func pol(id int64, productType string, active bool) *policy.Policy {
	return &policy.Policy{
		ID:          id,
		UserID:      "u1",
		Insurer:     "Alpha",
		ProductType: productType,
		Active:      active,
	}
}

func TestFindGaps_AutoHomeOnly(t *testing.T) {
	gaps := FindGaps([]*policy.Policy{
		pol(1, "auto", true),
		pol(2, "home", true),
	})
	require.Len(t, gaps, 3)
	// Alphabetical by missing type.
	assert.Equal(t, "Consider adding disability coverage", gaps[0].Title)
	assert.Equal(t, "Consider adding health coverage", gaps[1].Title)
	assert.Equal(t, "Consider adding life coverage", gaps[2].Title)
	assert.Equal(t, "disability", gaps[0].Explanation["missing_type"])
}

func TestFindGaps_InactiveDoesNotCount(t *testing.T) {
	gaps := FindGaps([]*policy.Policy{
		pol(1, "health", false),
	})
	titles := make([]string, 0, len(gaps))
	for _, g := range gaps {
		titles = append(titles, g.Title)
	}
	assert.Contains(t, titles, "Consider adding health coverage")
	assert.Len(t, gaps, 5)
}

func TestFindGaps_EmptyPortfolio(t *testing.T) {
	gaps := FindGaps(nil)
	assert.Len(t, gaps, 5)
}

func TestFindOverlaps_ThreeAutoPolicies(t *testing.T) {
	overlaps := FindOverlaps([]*policy.Policy{
		pol(1, "auto", true),
		pol(2, "auto", false),
		pol(3, "auto", true),
	})
	require.Len(t, overlaps, 1)
	assert.Equal(t, "Overlap in auto policies", overlaps[0].Title)
	assert.Equal(t, "You have 3 auto policies", overlaps[0].Reason)
	assert.Equal(t, 3, overlaps[0].Explanation["count"])
	assert.Equal(t, []int64{1, 2, 3}, overlaps[0].Explanation["policy_ids"])
}

func TestFindOverlaps_NoOverlap(t *testing.T) {
	overlaps := FindOverlaps([]*policy.Policy{
		pol(1, "auto", true),
		pol(2, "home", true),
	})
	assert.Empty(t, overlaps)
}

func TestShortlistValue_TopThreeByScore(t *testing.T) {
	policies := []*policy.Policy{
		pol(1, "auto", true),
		pol(2, "home", true),
		pol(3, "life", true),
		pol(4, "health", true),
	}
	policies[0].CoverageLimit = 1_000_000 // best
	policies[1].CoverageLimit = 500_000
	policies[2].CoverageLimit = 100_000
	policies[3].CoverageLimit = 0 // worst, cut from the shortlist

	recs := ShortlistValue(policies)
	require.Len(t, recs, 3)
	assert.Equal(t, "Good value candidate: Alpha auto", recs[0].Title)
	assert.Equal(t, "Good value candidate: Alpha home", recs[1].Title)
	assert.Equal(t, "Good value candidate: Alpha life", recs[2].Title)
	assert.Contains(t, recs[0].Explanation, "total_score")
}

func TestShortlistValue_ReasonUsesOneDecimal(t *testing.T) {
	p := pol(1, "auto", true)
	p.CoverageLimit = 500_000
	p.PremiumMonthly = 120
	p.Deductible = 1_000

	recs := ShortlistValue([]*policy.Policy{p})
	require.Len(t, recs, 1)
	assert.Regexp(t, `^Score \d+\.\d based on coverage, premium, deductible$`, recs[0].Reason)
}

func TestShortlistValue_FewerThanThree(t *testing.T) {
	recs := ShortlistValue([]*policy.Policy{pol(1, "auto", true)})
	assert.Len(t, recs, 1)
}

func TestRecommend_Order(t *testing.T) {
	policies := []*policy.Policy{
		pol(1, "auto", true),
		pol(2, "auto", true),
	}
	recs := Recommend(policies)
	// Gaps first (disability, health, home, life), then the auto overlap,
	// then the value shortlist.
	require.GreaterOrEqual(t, len(recs), 7)
	assert.Equal(t, "Consider adding disability coverage", recs[0].Title)
	assert.Equal(t, "Overlap in auto policies", recs[4].Title)
	assert.Contains(t, recs[5].Title, "Good value candidate")
}

func TestRecommend_EmptyPortfolioDegradesGracefully(t *testing.T) {
	recs := Recommend(nil)
	assert.Len(t, recs, 5) // all gaps, no overlaps, no shortlist
}
