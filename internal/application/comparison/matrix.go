// Package comparison builds side-by-side comparison matrices and derived
// analyses over a user's policies.
package comparison

import (
	"fmt"
	"sort"

	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// PolicyView is the serialized snapshot of one policy inside a comparison.
type PolicyView struct {
	ID                 int64          `json:"id"`
	OwnerName          string         `json:"owner_name"`
	Insurer            string         `json:"insurer"`
	ProductType        string         `json:"product_type"`
	PolicyNumber       string         `json:"policy_number"`
	StartDate          string         `json:"start_date"`
	EndDate            string         `json:"end_date"`
	PremiumMonthly     float64        `json:"premium_monthly"`
	PremiumAnnual      float64        `json:"premium_annual"`
	Deductible         float64        `json:"deductible"`
	CoverageLimit      float64        `json:"coverage_limit"`
	CoverageDetails    map[string]any `json:"coverage_details"`
	PolicyLanguage     string         `json:"policy_language"`
	TermsAndConditions string         `json:"terms_and_conditions"`
	OriginalFilename   string         `json:"original_filename"`
}

// BasicAnalysis carries the derived booleans of the basic information block.
type BasicAnalysis struct {
	SameInsurer        bool `json:"same_insurer"`
	SameType           bool `json:"same_type"`
	DifferentLanguages bool `json:"different_languages"`
}

// BasicInformation holds parallel arrays, one entry per compared policy.
type BasicInformation struct {
	PolicyHolders   []string      `json:"policy_holders"`
	Insurers        []string      `json:"insurers"`
	PolicyTypes     []string      `json:"policy_types"`
	PolicyNumbers   []string      `json:"policy_numbers"`
	CoveragePeriods []string      `json:"coverage_periods"`
	Languages       []string      `json:"languages"`
	Analysis        BasicAnalysis `json:"analysis"`
}

// FinancialAnalysis carries the derived aggregates of the financial block.
// All values default to 0 when no input is non-zero.
type FinancialAnalysis struct {
	CheapestMonthly       float64 `json:"cheapest_monthly"`
	MostExpensiveMonthly  float64 `json:"most_expensive_monthly"`
	LowestDeductible      float64 `json:"lowest_deductible"`
	HighestCoverageLimit  float64 `json:"highest_coverage_limit"`
	CostDifferenceMonthly float64 `json:"cost_difference_monthly"`
}

// FinancialTerms holds parallel arrays of the financial fields.
type FinancialTerms struct {
	MonthlyPremiums []float64         `json:"monthly_premiums"`
	AnnualPremiums  []float64         `json:"annual_premiums"`
	Deductibles     []float64         `json:"deductibles"`
	CoverageLimits  []float64         `json:"coverage_limits"`
	Analysis        FinancialAnalysis `json:"analysis"`
}

// CoverageCell records whether one policy carries one coverage type.  Amount
// is loosely typed: a number, a string like "Not specified", or nil when the
// coverage is absent.
type CoverageCell struct {
	Covered     bool   `json:"covered"`
	Amount      any    `json:"amount"`
	Description string `json:"description"`
}

// CoverageComparison is the coverage block: a matrix of (type, policy) cells
// plus derived set analyses.  Map values under UniqueCoverages and
// CoverageGaps are policy indices into the compared list.
type CoverageComparison struct {
	CoverageMatrix  map[string][]CoverageCell `json:"coverage_matrix"`
	UniqueCoverages map[string][]int          `json:"unique_coverages"`
	CommonCoverages []string                  `json:"common_coverages"`
	CoverageGaps    map[string][]int          `json:"coverage_gaps"`
}

// PolicyExclusions lists one policy's exclusions.
type PolicyExclusions struct {
	PolicyID   int64    `json:"policy_id"`
	Exclusions []string `json:"exclusions"`
}

// ExclusionComparison is the exclusion block.  UniqueExclusions is keyed by
// policy id and omits policies with no unique exclusions.
type ExclusionComparison struct {
	PolicyExclusions []PolicyExclusions `json:"policy_exclusions"`
	CommonExclusions []string           `json:"common_exclusions"`
	UniqueExclusions map[int64][]string `json:"unique_exclusions"`
}

// Matrix is the full comparison matrix.
type Matrix struct {
	BasicInformation   BasicInformation    `json:"basic_information"`
	FinancialTerms     FinancialTerms      `json:"financial_terms"`
	CoverageComparison CoverageComparison  `json:"coverage_comparison"`
	Exclusions         ExclusionComparison `json:"exclusions"`
}

// DateRange holds the lexicographic min start / max end over the compared
// policies.  Dates are opaque strings; non-ISO formats get undefined ordering.
type DateRange struct {
	EarliestStart string `json:"earliest_start,omitempty"`
	LatestEnd     string `json:"latest_end,omitempty"`
}

// PremiumRange holds the lowest and highest non-zero monthly premium,
// defaulting to 0 when every premium is zero.
type PremiumRange struct {
	LowestMonthly  float64 `json:"lowest_monthly"`
	HighestMonthly float64 `json:"highest_monthly"`
}

// Summary is the high-level comparison summary.
type Summary struct {
	TotalPolicies int          `json:"total_policies"`
	PolicyTypes   []string     `json:"policy_types"`
	Insurers      []string     `json:"insurers"`
	Languages     []string     `json:"languages"`
	DateRange     DateRange    `json:"date_range"`
	PremiumRange  PremiumRange `json:"premium_range"`
}

// Result is the complete output of one comparison run.
type Result struct {
	Policies         []PolicyView `json:"policies"`
	ComparisonMatrix Matrix       `json:"comparison_matrix"`
	Summary          Summary      `json:"summary"`
	Recommendations  []string     `json:"recommendations"`
}

// Compare builds the full comparison result over resolved policies.  Fewer
// than 2 policies fails with the insufficient-data error the HTTP layer maps
// to a 400.
func Compare(policies []*policy.Policy) (*Result, error) {
	if len(policies) < 2 {
		return nil, apperrors.InsufficientData(
			fmt.Sprintf("at least 2 policies are required for comparison, got %d", len(policies)))
	}

	views := make([]PolicyView, 0, len(policies))
	for _, p := range policies {
		views = append(views, serializeView(p))
	}

	return &Result{
		Policies: views,
		ComparisonMatrix: Matrix{
			BasicInformation:   compareBasicInfo(policies),
			FinancialTerms:     compareFinancialTerms(policies),
			CoverageComparison: compareCoverage(policies),
			Exclusions:         compareExclusions(policies),
		},
		Summary:         buildSummary(policies),
		Recommendations: generateRecommendations(policies),
	}, nil
}

func serializeView(p *policy.Policy) PolicyView {
	return PolicyView{
		ID:                 p.ID,
		OwnerName:          p.OwnerName,
		Insurer:            p.Insurer,
		ProductType:        p.ProductType,
		PolicyNumber:       p.PolicyNumber,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		PremiumMonthly:     p.PremiumMonthly,
		PremiumAnnual:      p.PremiumAnnual,
		Deductible:         p.Deductible,
		CoverageLimit:      p.CoverageLimit,
		CoverageDetails:    p.ParsedCoverage(),
		PolicyLanguage:     p.PolicyLanguage,
		TermsAndConditions: p.TermsAndConditions,
		OriginalFilename:   p.OriginalFilename,
	}
}

func distinctCount(values []string) int {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return len(set)
}

func compareBasicInfo(policies []*policy.Policy) BasicInformation {
	info := BasicInformation{
		PolicyHolders:   make([]string, 0, len(policies)),
		Insurers:        make([]string, 0, len(policies)),
		PolicyTypes:     make([]string, 0, len(policies)),
		PolicyNumbers:   make([]string, 0, len(policies)),
		CoveragePeriods: make([]string, 0, len(policies)),
		Languages:       make([]string, 0, len(policies)),
	}
	for _, p := range policies {
		info.PolicyHolders = append(info.PolicyHolders, p.OwnerName)
		info.Insurers = append(info.Insurers, p.Insurer)
		info.PolicyTypes = append(info.PolicyTypes, p.ProductType)
		info.PolicyNumbers = append(info.PolicyNumbers, p.PolicyNumber)
		info.CoveragePeriods = append(info.CoveragePeriods, p.CoveragePeriod())
		info.Languages = append(info.Languages, p.Language())
	}
	info.Analysis = BasicAnalysis{
		SameInsurer:        distinctCount(info.Insurers) == 1,
		SameType:           distinctCount(info.PolicyTypes) == 1,
		DifferentLanguages: distinctCount(info.Languages) > 1,
	}
	return info
}

func anyNonZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return true
		}
	}
	return false
}

func minMax(values []float64) (float64, float64) {
	mn, mx := values[0], values[0]
	for _, v := range values[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}

func compareFinancialTerms(policies []*policy.Policy) FinancialTerms {
	terms := FinancialTerms{
		MonthlyPremiums: make([]float64, 0, len(policies)),
		AnnualPremiums:  make([]float64, 0, len(policies)),
		Deductibles:     make([]float64, 0, len(policies)),
		CoverageLimits:  make([]float64, 0, len(policies)),
	}
	for _, p := range policies {
		terms.MonthlyPremiums = append(terms.MonthlyPremiums, p.PremiumMonthly)
		terms.AnnualPremiums = append(terms.AnnualPremiums, p.PremiumAnnual)
		terms.Deductibles = append(terms.Deductibles, p.Deductible)
		terms.CoverageLimits = append(terms.CoverageLimits, p.CoverageLimit)
	}

	// The aggregates run over the full parallel arrays, zeros included, but
	// only when at least one value is non-zero; otherwise everything stays 0.
	if anyNonZero(terms.MonthlyPremiums) {
		mn, mx := minMax(terms.MonthlyPremiums)
		terms.Analysis.CheapestMonthly = mn
		terms.Analysis.MostExpensiveMonthly = mx
		terms.Analysis.CostDifferenceMonthly = mx - mn
	}
	if anyNonZero(terms.Deductibles) {
		mn, _ := minMax(terms.Deductibles)
		terms.Analysis.LowestDeductible = mn
	}
	if anyNonZero(terms.CoverageLimits) {
		_, mx := minMax(terms.CoverageLimits)
		terms.Analysis.HighestCoverageLimit = mx
	}
	return terms
}

func compareCoverage(policies []*policy.Policy) CoverageComparison {
	coverages := make([]map[string]any, 0, len(policies))
	typeSet := make(map[string]struct{})
	for _, p := range policies {
		cov := p.ParsedCoverage()
		coverages = append(coverages, cov)
		for t := range cov {
			// The exclusions list lives inside coverage_details but is
			// compared in its own block, not as a coverage type.
			if t == "exclusions" {
				continue
			}
			typeSet[t] = struct{}{}
		}
	}
	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)

	matrix := make(map[string][]CoverageCell, len(types))
	for _, covType := range types {
		cells := make([]CoverageCell, 0, len(policies))
		for _, cov := range coverages {
			raw, ok := cov[covType]
			if !ok {
				cells = append(cells, CoverageCell{
					Covered:     false,
					Amount:      nil,
					Description: covType + " not covered",
				})
				continue
			}
			if m, isMap := raw.(map[string]any); isMap {
				amount, hasAmount := m["amount"]
				if !hasAmount {
					amount = "Not specified"
				}
				desc, _ := m["description"].(string)
				if desc == "" {
					desc = covType
				}
				cells = append(cells, CoverageCell{Covered: true, Amount: amount, Description: desc})
			} else {
				cells = append(cells, CoverageCell{Covered: true, Amount: raw, Description: covType})
			}
		}
		matrix[covType] = cells
	}

	unique := make(map[string][]int)
	common := make([]string, 0)
	gaps := make(map[string][]int)
	for _, covType := range types {
		cells := matrix[covType]
		var covered, uncovered []int
		for i, c := range cells {
			if c.Covered {
				covered = append(covered, i)
			} else {
				uncovered = append(uncovered, i)
			}
		}
		if len(covered) == 1 {
			unique[covType] = covered
		}
		if len(covered) == len(cells) {
			common = append(common, covType)
		}
		if len(uncovered) > 0 && len(uncovered) < len(cells) {
			gaps[covType] = uncovered
		}
	}

	return CoverageComparison{
		CoverageMatrix:  matrix,
		UniqueCoverages: unique,
		CommonCoverages: common,
		CoverageGaps:    gaps,
	}
}

func compareExclusions(policies []*policy.Policy) ExclusionComparison {
	perPolicy := make([]PolicyExclusions, 0, len(policies))
	for _, p := range policies {
		perPolicy = append(perPolicy, PolicyExclusions{
			PolicyID:   p.ID,
			Exclusions: p.Exclusions(),
		})
	}

	// Intersection across all policies.
	common := make(map[string]struct{})
	for _, e := range perPolicy[0].Exclusions {
		common[e] = struct{}{}
	}
	for _, pe := range perPolicy[1:] {
		next := make(map[string]struct{})
		for _, e := range pe.Exclusions {
			if _, ok := common[e]; ok {
				next[e] = struct{}{}
			}
		}
		common = next
	}
	commonList := make([]string, 0, len(common))
	for e := range common {
		commonList = append(commonList, e)
	}
	sort.Strings(commonList)

	// Per-policy difference against the union of all other policies.
	unique := make(map[int64][]string)
	for i, pe := range perPolicy {
		others := make(map[string]struct{})
		for j, other := range perPolicy {
			if i == j {
				continue
			}
			for _, e := range other.Exclusions {
				others[e] = struct{}{}
			}
		}
		var own []string
		for _, e := range pe.Exclusions {
			if _, ok := others[e]; !ok {
				own = append(own, e)
			}
		}
		if len(own) > 0 {
			sort.Strings(own)
			unique[pe.PolicyID] = own
		}
	}

	return ExclusionComparison{
		PolicyExclusions: perPolicy,
		CommonExclusions: commonList,
		UniqueExclusions: unique,
	}
}

func distinctSorted(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func buildSummary(policies []*policy.Policy) Summary {
	var types, insurers, langs []string
	var earliest, latest string
	var lowest, highest float64
	for _, p := range policies {
		types = append(types, p.ProductType)
		insurers = append(insurers, p.Insurer)
		langs = append(langs, p.Language())
		if p.StartDate != "" && (earliest == "" || p.StartDate < earliest) {
			earliest = p.StartDate
		}
		if p.EndDate != "" && p.EndDate > latest {
			latest = p.EndDate
		}
		if p.PremiumMonthly != 0 {
			if lowest == 0 || p.PremiumMonthly < lowest {
				lowest = p.PremiumMonthly
			}
			if p.PremiumMonthly > highest {
				highest = p.PremiumMonthly
			}
		}
	}
	return Summary{
		TotalPolicies: len(policies),
		PolicyTypes:   distinctSorted(types),
		Insurers:      distinctSorted(insurers),
		Languages:     distinctSorted(langs),
		DateRange:     DateRange{EarliestStart: earliest, LatestEnd: latest},
		PremiumRange:  PremiumRange{LowestMonthly: lowest, HighestMonthly: highest},
	}
}

func generateRecommendations(policies []*policy.Policy) []string {
	recs := make([]string, 0, 4)

	var premiums []float64
	for _, p := range policies {
		if p.PremiumMonthly != 0 {
			premiums = append(premiums, p.PremiumMonthly)
		}
	}
	if len(premiums) > 0 {
		mn, mx := minMax(premiums)
		if mx > mn*1.5 {
			recs = append(recs, fmt.Sprintf(
				"Significant premium difference detected: $%.2f vs $%.2f monthly", mn, mx))
		}
	}

	recs = append(recs, "Review coverage details for gaps and overlaps")

	var langs, insurers []string
	for _, p := range policies {
		langs = append(langs, p.Language())
		insurers = append(insurers, p.Insurer)
	}
	if distinctCount(langs) > 1 {
		recs = append(recs, "Policies are in different languages - ensure you understand all terms")
	}
	if distinctCount(insurers) == 1 {
		recs = append(recs, "All policies are with the same insurer - consider diversifying for risk management")
	}
	return recs
}
