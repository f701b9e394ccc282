package extraction

import (
	"strings"

	domain "github.com/ronled86/InsuraIQ/internal/domain/extraction"
)

// sectionAliases resolves loosely named overlay sections to canonical section
// names.  The canonical name itself always resolves, so only variants need
// listing here.
var sectionAliases = map[string][]string{
	domain.SectionBasicInfo:         {"basic_information", "basic", "general_info", "policy_info"},
	domain.SectionFinancialInfo:     {"financial_details", "financial", "costs", "financial_terms", "pricing"},
	domain.SectionCoverageDetails:   {"coverage", "coverages", "coverage_info", "coverage_information"},
	domain.SectionPolicyTerms:       {"terms", "policy_period", "policy_dates", "dates"},
	domain.SectionBeneficiaries:     {"beneficiary", "beneficiary_info"},
	domain.SectionExclusions:        {"exclusion", "excluded", "not_covered"},
	domain.SectionClaimsInfo:        {"claims", "claim_info", "claims_information"},
	domain.SectionContactInfo:       {"contact", "contacts", "contact_details"},
	domain.SectionLegalInfo:         {"legal", "legal_details"},
	domain.SectionSpecialProvisions: {"special", "provisions", "special_terms"},
	domain.SectionDocumentMetadata:  {"metadata", "document_info", "doc_metadata"},
	domain.SectionRiskAssessment:    {"risk", "risks", "risk_info"},
	domain.SectionPaymentSchedule:   {"payments", "payment_info", "payment_details"},
	domain.SectionRidersEndorse:     {"riders", "endorsements", "addons", "extensions"},
	domain.SectionVehicleInfo:       {"vehicle", "car_info", "auto_info"},
	domain.SectionPropertyInfo:      {"property", "home_info", "real_estate"},
	domain.SectionHealthInfo:        {"health", "medical_info"},
	domain.SectionLifeInfo:          {"life", "life_details"},
	domain.SectionBusinessInfo:      {"business", "company_info", "commercial_info"},
}

// NormalizeKey canonicalizes an overlay key: lower-case, spaces and hyphens
// become underscores.
func NormalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.ReplaceAll(k, "-", "_")
	return k
}

// resolveOverlaySection finds the overlay key corresponding to the canonical
// section name, checking the direct name first and then the alias table.
// Overlay keys are compared in normalized form.
func resolveOverlaySection(canonical string, overlay map[string]any) (string, bool) {
	normalized := make(map[string]string, len(overlay))
	for k := range overlay {
		normalized[NormalizeKey(k)] = k
	}
	if orig, ok := normalized[canonical]; ok {
		return orig, true
	}
	for _, alias := range sectionAliases[canonical] {
		if orig, ok := normalized[alias]; ok {
			return orig, true
		}
	}
	return "", false
}

// MergeOverlay merges a model-assisted overlay into the baseline result.
// The baseline always wins structurally; overlay values override baseline
// values only when non-empty.  Overlay sections that resolve to no canonical
// section are carried through unchanged as additional sections.  An empty
// overlay makes the merge a no-op.
//
// The overlay shape is untrusted: missing keys, extra keys, and non-map
// section values are all tolerated without error.
func MergeOverlay(baseline *domain.Result, overlay map[string]any) *domain.Result {
	if baseline == nil {
		baseline = domain.NewResult()
	}
	if len(overlay) == 0 {
		return baseline
	}

	claimed := make(map[string]bool, len(overlay))
	for _, canonical := range domain.CanonicalSections {
		overlayKey, ok := resolveOverlaySection(canonical, overlay)
		if !ok {
			continue
		}
		claimed[overlayKey] = true
		overlaySection, ok := overlay[overlayKey].(map[string]any)
		if !ok {
			// Non-map section value: nothing mergeable.
			continue
		}
		target := baseline.Section(canonical)
		for k, v := range overlaySection {
			if domain.IsEmptyValue(v) {
				continue
			}
			target[NormalizeKey(k)] = v
		}
	}

	// Unmatched overlay sections are preserved, never discarded.
	for k, v := range overlay {
		if claimed[k] {
			continue
		}
		name := NormalizeKey(k)
		if _, exists := baseline.Sections[name]; exists {
			continue
		}
		section := domain.Section{}
		if m, ok := v.(map[string]any); ok {
			for fk, fv := range m {
				if !domain.IsEmptyValue(fv) {
					section[NormalizeKey(fk)] = fv
				}
			}
		} else if !domain.IsEmptyValue(v) {
			section["value"] = v
		}
		baseline.Sections[name] = section
	}

	return baseline
}
