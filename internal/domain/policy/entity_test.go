package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

func validPolicy() *Policy {
	return &Policy{
		UserID:         "u1",
		OwnerName:      "Dana Levi",
		Insurer:        "Alpha",
		ProductType:    "auto",
		PolicyNumber:   "POL-001",
		PremiumMonthly: 120,
		Active:         true,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validPolicy().Validate())

	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"missing user", func(p *Policy) { p.UserID = "" }},
		{"missing owner", func(p *Policy) { p.OwnerName = "  " }},
		{"missing insurer", func(p *Policy) { p.Insurer = "" }},
		{"missing product type", func(p *Policy) { p.ProductType = "" }},
		{"missing policy number", func(p *Policy) { p.PolicyNumber = "" }},
		{"negative premium", func(p *Policy) { p.PremiumMonthly = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodePolicyInvalid, apperrors.GetCode(err))
		})
	}
}

func TestParsedCoverage(t *testing.T) {
	p := validPolicy()
	assert.Empty(t, p.ParsedCoverage())

	p.CoverageDetails = `{"collision_coverage":{"amount":50000,"description":"collision"}}`
	cov := p.ParsedCoverage()
	require.Contains(t, cov, "collision_coverage")

	p.CoverageDetails = `{not json`
	assert.Empty(t, p.ParsedCoverage())
}

func TestExclusions(t *testing.T) {
	p := validPolicy()
	assert.Empty(t, p.Exclusions())

	p.CoverageDetails = `{"exclusions":["war","racing"]}`
	assert.Equal(t, []string{"war", "racing"}, p.Exclusions())

	p.CoverageDetails = `{"exclusions":"not a list"}`
	assert.Empty(t, p.Exclusions())
}

func TestLanguageDefault(t *testing.T) {
	p := validPolicy()
	assert.Equal(t, "en", p.Language())
	p.PolicyLanguage = "he"
	assert.Equal(t, "he", p.Language())
}

func TestCoveragePeriod(t *testing.T) {
	p := validPolicy()
	assert.Equal(t, "Not specified", p.CoveragePeriod())
	p.StartDate, p.EndDate = "2024-01-01", "2024-12-31"
	assert.Equal(t, "2024-01-01 to 2024-12-31", p.CoveragePeriod())
	p.EndDate = ""
	assert.Equal(t, "Not specified", p.CoveragePeriod())
}

func TestNormalizeProduct(t *testing.T) {
	tests := []struct{ in, want string }{
		{"car", "auto"},
		{"Vehicle", "auto"},
		{"house", "home"},
		{"Property", "home"},
		{"medical", "health"},
		{"term life", "life"},
		{"income protection", "disability"},
		{"Travel", "travel"},
		{"  AUTO  ", "auto"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeProduct(tt.in), "input: %q", tt.in)
	}
}

func TestParseCSV(t *testing.T) {
	data := `owner_name,insurer,product_type,policy_number,start_date,end_date,premium_monthly,deductible,coverage_limit,notes
Dana Levi,Alpha,car,POL-001,2024-01-01,2024-12-31,"1,200.50",500,100000,first
Noam Bar,Beta,medical,POL-002,,,80,,,
`
	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Dana Levi", rows[0].OwnerName)
	assert.Equal(t, "auto", rows[0].ProductType)
	assert.Equal(t, 1200.50, rows[0].PremiumMonthly)
	assert.Equal(t, 500.0, rows[0].Deductible)
	assert.True(t, rows[0].Active)

	assert.Equal(t, "health", rows[1].ProductType)
	assert.Equal(t, 80.0, rows[1].PremiumMonthly)
	assert.Zero(t, rows[1].Deductible)
}

func TestParseCSV_BadHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePolicyImportFailed, apperrors.GetCode(err))
}
