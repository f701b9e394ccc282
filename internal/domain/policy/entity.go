// Package policy defines the Policy aggregate, its repository contracts, and
// the helpers used to normalize incoming policy data.
package policy

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// Policy is the persisted policy record.  Dates are stored as the literal
// strings found in source documents; no calendar parsing is performed, so
// range computations over them are lexicographic.
type Policy struct {
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	OwnerName   string `json:"owner_name"`
	Insurer     string `json:"insurer"`
	ProductType string `json:"product_type"`
	// PolicyNumber is unique across all policies.
	PolicyNumber string `json:"policy_number"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`

	PremiumMonthly float64 `json:"premium_monthly"`
	PremiumAnnual  float64 `json:"premium_annual"`
	Deductible     float64 `json:"deductible"`
	CoverageLimit  float64 `json:"coverage_limit"`

	// CoverageDetails is a JSON object keyed by coverage type; values are
	// either {amount, description, type} objects or scalars.  An "exclusions"
	// key holds a string list.
	CoverageDetails string `json:"coverage_details,omitempty"`

	PolicyLanguage     string `json:"policy_language,omitempty"`
	TermsAndConditions string `json:"terms_and_conditions,omitempty"`
	Notes              string `json:"notes,omitempty"`
	Active             bool   `json:"active"`

	// Extraction provenance, set when the record was created from a document.
	ExtractionConfidence float64 `json:"extraction_confidence,omitempty"`
	AIEnhanced           bool    `json:"ai_enhanced,omitempty"`
	OriginalFilename     string  `json:"original_filename,omitempty"`
	// DocumentKey is the object-storage key of the source document, empty
	// when the policy was created manually or via CSV.
	DocumentKey string `json:"document_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields required for persistence.
func (p *Policy) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return apperrors.New(apperrors.ErrCodePolicyInvalid, "user_id is required")
	}
	if strings.TrimSpace(p.OwnerName) == "" {
		return apperrors.New(apperrors.ErrCodePolicyInvalid, "owner_name is required")
	}
	if strings.TrimSpace(p.Insurer) == "" {
		return apperrors.New(apperrors.ErrCodePolicyInvalid, "insurer is required")
	}
	if strings.TrimSpace(p.ProductType) == "" {
		return apperrors.New(apperrors.ErrCodePolicyInvalid, "product_type is required")
	}
	if strings.TrimSpace(p.PolicyNumber) == "" {
		return apperrors.New(apperrors.ErrCodePolicyInvalid, "policy_number is required")
	}
	if p.PremiumMonthly < 0 || p.PremiumAnnual < 0 || p.Deductible < 0 || p.CoverageLimit < 0 {
		return apperrors.New(apperrors.ErrCodePolicyInvalid, "monetary fields must be non-negative")
	}
	return nil
}

// ParsedCoverage decodes CoverageDetails into a generic map.  Malformed or
// empty JSON yields an empty map, never an error.
func (p *Policy) ParsedCoverage() map[string]any {
	if p.CoverageDetails == "" {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(p.CoverageDetails), &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// Exclusions returns the exclusion list embedded in CoverageDetails under the
// "exclusions" key, or an empty list.
func (p *Policy) Exclusions() []string {
	cov := p.ParsedCoverage()
	raw, ok := cov["exclusions"]
	if !ok {
		return []string{}
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// Language returns the policy language, defaulting to "en" when unset.
func (p *Policy) Language() string {
	if p.PolicyLanguage == "" {
		return "en"
	}
	return p.PolicyLanguage
}

// CoveragePeriod renders the policy period for display.  Both dates must be
// present; otherwise "Not specified" is returned.
func (p *Policy) CoveragePeriod() string {
	if p.StartDate != "" && p.EndDate != "" {
		return p.StartDate + " to " + p.EndDate
	}
	return "Not specified"
}

// productAliases maps canonical product types to the raw spellings accepted
// during normalization.
var productAliases = map[string][]string{
	"auto":       {"car", "vehicle", "auto"},
	"home":       {"home", "house", "property"},
	"health":     {"health", "medical"},
	"life":       {"life", "term life", "whole life"},
	"disability": {"disability", "income protection"},
}

// NormalizeProduct maps a raw product-type spelling to its canonical name.
// Unrecognized values are lower-cased and passed through.
func NormalizeProduct(product string) string {
	m := strings.ToLower(strings.TrimSpace(product))
	for key, vals := range productAliases {
		for _, v := range vals {
			if m == v {
				return key
			}
		}
	}
	return m
}
