package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Policy mirrors the API's policy resource.
type Policy struct {
	ID           int64  `json:"id"`
	UserID       string `json:"user_id,omitempty"`
	OwnerName    string `json:"owner_name"`
	Insurer      string `json:"insurer"`
	ProductType  string `json:"product_type"`
	PolicyNumber string `json:"policy_number"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`

	PremiumMonthly float64 `json:"premium_monthly"`
	PremiumAnnual  float64 `json:"premium_annual"`
	Deductible     float64 `json:"deductible"`
	CoverageLimit  float64 `json:"coverage_limit"`

	CoverageDetails    string `json:"coverage_details,omitempty"`
	PolicyLanguage     string `json:"policy_language,omitempty"`
	TermsAndConditions string `json:"terms_and_conditions,omitempty"`
	Notes              string `json:"notes,omitempty"`
	Active             bool   `json:"active"`

	ExtractionConfidence float64 `json:"extraction_confidence,omitempty"`
	AIEnhanced           bool    `json:"ai_enhanced,omitempty"`
	OriginalFilename     string  `json:"original_filename,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// CreatePolicy creates a policy.
func (c *Client) CreatePolicy(ctx context.Context, p *Policy) (*Policy, error) {
	var out Policy
	if err := c.do(ctx, http.MethodPost, "/api/policies", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPolicies returns the caller's policies.
func (c *Client) ListPolicies(ctx context.Context) ([]Policy, error) {
	var out []Policy
	if err := c.do(ctx, http.MethodGet, "/api/policies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPolicy returns one policy by id.
func (c *Client) GetPolicy(ctx context.Context, id int64) (*Policy, error) {
	var out Policy
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/policies/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePolicy replaces a policy.
func (c *Client) UpdatePolicy(ctx context.Context, id int64, p *Policy) (*Policy, error) {
	var out Policy
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/policies/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePolicy removes a policy.
func (c *Client) DeletePolicy(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/policies/%d", id), nil, nil)
}

// CompareResult is the comparison response. The matrix is kept raw so SDK
// consumers can project just the sections they need.
type CompareResult struct {
	Policies         []Policy        `json:"policies"`
	ComparisonMatrix json.RawMessage `json:"comparison_matrix"`
	Summary          json.RawMessage `json:"summary"`
	Recommendations  []string        `json:"recommendations"`
}

// Compare runs a comparison over the given policy ids.
func (c *Client) Compare(ctx context.Context, policyIDs []int64) (*CompareResult, error) {
	var out CompareResult
	body := map[string][]int64{"policy_ids": policyIDs}
	if err := c.do(ctx, http.MethodPost, "/api/compare", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompareRecord is one saved comparison run.
type CompareRecord struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	PolicyIDs  []int64   `json:"policy_ids"`
	ResultJSON string    `json:"result_json"`
	CreatedAt  time.Time `json:"created_at"`
}

// CompareHistory returns the caller's recent comparison runs.
func (c *Client) CompareHistory(ctx context.Context, limit int) ([]CompareRecord, error) {
	path := "/api/compare/history"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out []CompareRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TypeTotals aggregates one product type in the portfolio summary.
type TypeTotals struct {
	Count    int     `json:"count"`
	Premium  float64 `json:"premium"`
	Coverage float64 `json:"coverage"`
}

// PortfolioSummary is the per-type portfolio rollup.
type PortfolioSummary struct {
	ByType       map[string]TypeTotals `json:"by_type"`
	TotalPremium float64               `json:"total_premium"`
}

// PortfolioSummary returns the caller's portfolio rollup.
func (c *Client) PortfolioSummary(ctx context.Context) (*PortfolioSummary, error) {
	var out PortfolioSummary
	if err := c.do(ctx, http.MethodGet, "/api/portfolio/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recommendation is one advisory finding.
type Recommendation struct {
	Title       string         `json:"title"`
	Reason      string         `json:"reason"`
	Impact      string         `json:"impact"`
	Explanation map[string]any `json:"explanation"`
}

// Recommendations returns the advisory findings for the caller's portfolio.
func (c *Client) Recommendations(ctx context.Context) ([]Recommendation, error) {
	var out []Recommendation
	if err := c.do(ctx, http.MethodGet, "/api/advisor/recommendations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Scores returns the per-policy value scores, keyed by policy id.
func (c *Client) Scores(ctx context.Context) (map[string]float64, error) {
	var out map[string]float64
	if err := c.do(ctx, http.MethodGet, "/api/advisor/scores", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Quote is one indicative offer.
type Quote struct {
	Insurer    string  `json:"insurer"`
	Monthly    float64 `json:"monthly"`
	Deductible float64 `json:"deductible"`
	Coverage   float64 `json:"coverage"`
}

// Quotes fetches indicative offers for the given product and terms.
func (c *Client) Quotes(ctx context.Context, productType string, coverageLimit, deductible float64) ([]Quote, error) {
	path := fmt.Sprintf("/api/quotes?product_type=%s&coverage_limit=%g&deductible=%g",
		productType, coverageLimit, deductible)
	var out []Quote
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
