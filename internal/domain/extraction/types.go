// Package extraction defines the value types produced by the document
// extraction pipeline: sections of extracted fields, coverage items, and the
// final result with its confidence metadata.
package extraction

// Canonical section names.  Every ExtractionResult contains all of these keys,
// empty or not, so downstream consumers never need existence checks.
const (
	SectionBasicInfo         = "basic_info"
	SectionFinancialInfo     = "financial_info"
	SectionCoverageDetails   = "coverage_details"
	SectionPolicyTerms       = "policy_terms"
	SectionBeneficiaries     = "beneficiaries"
	SectionExclusions        = "exclusions"
	SectionClaimsInfo        = "claims_info"
	SectionContactInfo       = "contact_info"
	SectionLegalInfo         = "legal_info"
	SectionSpecialProvisions = "special_provisions"
	SectionDocumentMetadata  = "document_metadata"
	SectionRiskAssessment    = "risk_assessment"
	SectionPaymentSchedule   = "payment_schedule"
	SectionRidersEndorse     = "riders_endorsements"

	// Category-specific sections, populated only when the resolved policy
	// category matches.
	SectionVehicleInfo  = "vehicle_info"
	SectionPropertyInfo = "property_info"
	SectionHealthInfo   = "health_info"
	SectionLifeInfo     = "life_info"
	SectionBusinessInfo = "business_info"
)

// CanonicalSections lists every section in its canonical order.
var CanonicalSections = []string{
	SectionBasicInfo,
	SectionFinancialInfo,
	SectionCoverageDetails,
	SectionPolicyTerms,
	SectionBeneficiaries,
	SectionExclusions,
	SectionClaimsInfo,
	SectionContactInfo,
	SectionLegalInfo,
	SectionSpecialProvisions,
	SectionDocumentMetadata,
	SectionRiskAssessment,
	SectionPaymentSchedule,
	SectionRidersEndorse,
	SectionVehicleInfo,
	SectionPropertyInfo,
	SectionHealthInfo,
	SectionLifeInfo,
	SectionBusinessInfo,
}

// CategorySection maps a policy category to its dedicated section name.
var CategorySection = map[string]string{
	"auto":     SectionVehicleInfo,
	"home":     SectionPropertyInfo,
	"health":   SectionHealthInfo,
	"life":     SectionLifeInfo,
	"business": SectionBusinessInfo,
}

// Section is a named mapping from field key to extracted value.  Values are
// strings, float64 numbers, or CoverageItem entries.
type Section map[string]any

// CoverageItem is a single coverage entry inside the coverage_details section.
type CoverageItem struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
}

// Language classification values.
const (
	LangEnglish = "en"
	LangHebrew  = "he"
	LangMixed   = "mixed"
	LangUnknown = "unknown"
)

// Result is the canonical output of the extraction pipeline.
type Result struct {
	// Sections always contains every canonical section key; adapter-supplied
	// sections that match no canonical name are carried through additionally.
	Sections map[string]Section `json:"sections"`

	// Confidence is the overall extraction confidence in [0,1].
	Confidence float64 `json:"extraction_confidence"`

	// Language is one of LangEnglish, LangHebrew, LangMixed, LangUnknown.
	Language string `json:"language"`

	// TotalParameters counts every non-empty leaf value across all sections.
	TotalParameters int `json:"total_parameters_extracted"`

	// AIEnhanced reports whether the model-assisted adapter contributed to
	// this result.
	AIEnhanced bool `json:"ai_enhanced"`
}

// NewResult returns a Result with every canonical section present and empty.
func NewResult() *Result {
	sections := make(map[string]Section, len(CanonicalSections))
	for _, name := range CanonicalSections {
		sections[name] = Section{}
	}
	return &Result{
		Sections: sections,
		Language: LangUnknown,
	}
}

// Section returns the named section, creating it if absent.
func (r *Result) Section(name string) Section {
	s, ok := r.Sections[name]
	if !ok {
		s = Section{}
		r.Sections[name] = s
	}
	return s
}

// IsEmptyValue reports whether v counts as "empty" for merge and parameter
// counting purposes: nil, the empty string, or an empty nested map.
func IsEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case Section:
		return len(t) == 0
	default:
		return false
	}
}

// CountParameters returns the number of non-empty leaf values across all
// sections.  Nested coverage items count as one each.
func (r *Result) CountParameters() int {
	n := 0
	for _, section := range r.Sections {
		for _, v := range section {
			if !IsEmptyValue(v) {
				n++
			}
		}
	}
	return n
}

// NonEmptySections returns how many sections contain at least one field.
func (r *Result) NonEmptySections() int {
	n := 0
	for _, section := range r.Sections {
		if len(section) > 0 {
			n++
		}
	}
	return n
}
