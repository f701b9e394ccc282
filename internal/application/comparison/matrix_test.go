package comparison

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

func testPolicy(id int64, mutate func(*policy.Policy)) *policy.Policy {
	p := &policy.Policy{
		ID:             id,
		UserID:         "u1",
		OwnerName:      "Dana Levi",
		Insurer:        "Alpha",
		ProductType:    "auto",
		PolicyNumber:   "POL-" + string(rune('0'+id)),
		StartDate:      "2024-01-01",
		EndDate:        "2024-12-31",
		PremiumMonthly: 100,
		Active:         true,
	}
	if mutate != nil {
		mutate(p)
	}
	return p
}

func TestCompare_InsufficientData(t *testing.T) {
	_, err := Compare(nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientData(err))

	_, err = Compare([]*policy.Policy{testPolicy(1, nil)})
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientData(err))
}

func TestCompare_SameInsurerPremiumSpread(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) { p.PremiumMonthly = 100 })
	b := testPolicy(2, func(p *policy.Policy) { p.PremiumMonthly = 200 })

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)

	assert.True(t, res.ComparisonMatrix.BasicInformation.Analysis.SameInsurer)
	assert.True(t, res.ComparisonMatrix.BasicInformation.Analysis.SameType)
	assert.False(t, res.ComparisonMatrix.BasicInformation.Analysis.DifferentLanguages)

	fin := res.ComparisonMatrix.FinancialTerms.Analysis
	assert.Equal(t, 100.0, fin.CheapestMonthly)
	assert.Equal(t, 200.0, fin.MostExpensiveMonthly)
	assert.Equal(t, 100.0, fin.CostDifferenceMonthly)

	// 200 > 1.5*100, so the premium-difference string is present with both
	// values formatted to two decimals.
	assert.Contains(t, res.Recommendations,
		"Significant premium difference detected: $100.00 vs $200.00 monthly")
	assert.Contains(t, res.Recommendations, "Review coverage details for gaps and overlaps")
	assert.Contains(t, res.Recommendations,
		"All policies are with the same insurer - consider diversifying for risk management")
}

func TestCompare_NoPremiumFlagBelowThreshold(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) { p.PremiumMonthly = 100 })
	b := testPolicy(2, func(p *policy.Policy) { p.PremiumMonthly = 140 })

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)
	for _, r := range res.Recommendations {
		assert.NotContains(t, r, "Significant premium difference")
	}
}

func TestCompare_LanguageAndInsurerRecommendations(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) { p.Insurer = "Alpha"; p.PolicyLanguage = "en" })
	b := testPolicy(2, func(p *policy.Policy) { p.Insurer = "Beta"; p.PolicyLanguage = "he" })

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)

	assert.True(t, res.ComparisonMatrix.BasicInformation.Analysis.DifferentLanguages)
	assert.Contains(t, res.Recommendations,
		"Policies are in different languages - ensure you understand all terms")
	for _, r := range res.Recommendations {
		assert.NotContains(t, r, "same insurer")
	}
}

func TestCompare_CoverageSets(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) {
		p.CoverageDetails = `{
			"collision_coverage":{"amount":50000,"description":"collision"},
			"fire_coverage":{"amount":10000,"description":"fire"}
		}`
	})
	b := testPolicy(2, func(p *policy.Policy) {
		p.CoverageDetails = `{
			"collision_coverage":{"amount":40000,"description":"collision"},
			"theft_coverage":{"amount":20000,"description":"theft"}
		}`
	})

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)
	cov := res.ComparisonMatrix.CoverageComparison

	assert.Equal(t, []string{"collision_coverage"}, cov.CommonCoverages)
	assert.Equal(t, []int{0}, cov.UniqueCoverages["fire_coverage"])
	assert.Equal(t, []int{1}, cov.UniqueCoverages["theft_coverage"])
	assert.NotContains(t, cov.UniqueCoverages, "collision_coverage")

	// Gaps list the indices lacking the coverage and never include a type
	// held by all or by none.
	assert.Equal(t, []int{1}, cov.CoverageGaps["fire_coverage"])
	assert.Equal(t, []int{0}, cov.CoverageGaps["theft_coverage"])
	assert.NotContains(t, cov.CoverageGaps, "collision_coverage")

	cells := cov.CoverageMatrix["fire_coverage"]
	require.Len(t, cells, 2)
	assert.True(t, cells[0].Covered)
	assert.Equal(t, float64(10000), cells[0].Amount)
	assert.False(t, cells[1].Covered)
	assert.Nil(t, cells[1].Amount)
}

func TestCompare_ScalarCoverageValue(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) {
		p.CoverageDetails = `{"roadside_assistance": true}`
	})
	b := testPolicy(2, nil)

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)
	cells := res.ComparisonMatrix.CoverageComparison.CoverageMatrix["roadside_assistance"]
	require.Len(t, cells, 2)
	assert.True(t, cells[0].Covered)
	assert.Equal(t, true, cells[0].Amount)
	assert.Equal(t, "roadside_assistance", cells[0].Description)
}

func TestCompare_Exclusions(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) {
		p.CoverageDetails = `{"exclusions":["war","racing"]}`
	})
	b := testPolicy(2, func(p *policy.Policy) {
		p.CoverageDetails = `{"exclusions":["war","flood"]}`
	})

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)
	excl := res.ComparisonMatrix.Exclusions

	assert.Equal(t, []string{"war"}, excl.CommonExclusions)
	assert.Equal(t, []string{"racing"}, excl.UniqueExclusions[1])
	assert.Equal(t, []string{"flood"}, excl.UniqueExclusions[2])

	// The exclusions key never leaks into the coverage matrix.
	assert.NotContains(t, res.ComparisonMatrix.CoverageComparison.CoverageMatrix, "exclusions")
}

func TestCompare_SummaryRanges(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) {
		p.StartDate, p.EndDate = "2023-06-01", "2024-05-31"
		p.PremiumMonthly = 0
	})
	b := testPolicy(2, func(p *policy.Policy) {
		p.StartDate, p.EndDate = "2024-01-01", "2024-12-31"
		p.PremiumMonthly = 80
	})

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Summary.TotalPolicies)
	assert.Equal(t, "2023-06-01", res.Summary.DateRange.EarliestStart)
	assert.Equal(t, "2024-12-31", res.Summary.DateRange.LatestEnd)
	// Zero premiums are excluded from the range.
	assert.Equal(t, 80.0, res.Summary.PremiumRange.LowestMonthly)
	assert.Equal(t, 80.0, res.Summary.PremiumRange.HighestMonthly)
}

func TestCompare_ZeroFinancials(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) { p.PremiumMonthly = 0 })
	b := testPolicy(2, func(p *policy.Policy) { p.PremiumMonthly = 0 })

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)
	fin := res.ComparisonMatrix.FinancialTerms.Analysis
	assert.Zero(t, fin.CheapestMonthly)
	assert.Zero(t, fin.MostExpensiveMonthly)
	assert.Zero(t, fin.CostDifferenceMonthly)
	assert.Zero(t, fin.LowestDeductible)
	assert.Zero(t, fin.HighestCoverageLimit)
}

func TestCompare_CoverageMatrixRoundTrip(t *testing.T) {
	a := testPolicy(1, func(p *policy.Policy) {
		p.CoverageDetails = `{"fire_coverage":{"amount":10000,"description":"fire"}}`
	})
	b := testPolicy(2, nil)

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))

	orig := res.ComparisonMatrix.CoverageComparison.CoverageMatrix
	got := decoded.ComparisonMatrix.CoverageComparison.CoverageMatrix
	require.Len(t, got, len(orig))
	for covType, cells := range orig {
		require.Len(t, got[covType], len(cells))
		for i, c := range cells {
			assert.Equal(t, c.Covered, got[covType][i].Covered)
		}
	}
}

func TestCompare_PeriodFormatting(t *testing.T) {
	a := testPolicy(1, nil)
	b := testPolicy(2, func(p *policy.Policy) { p.StartDate = ""; p.EndDate = "" })

	res, err := Compare([]*policy.Policy{a, b})
	require.NoError(t, err)
	periods := res.ComparisonMatrix.BasicInformation.CoveragePeriods
	assert.Equal(t, "2024-01-01 to 2024-12-31", periods[0])
	assert.Equal(t, "Not specified", periods[1])
}
