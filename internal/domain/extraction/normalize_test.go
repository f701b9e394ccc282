package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"plain integer", "1500", 1500.0},
		{"thousands separator", "12,500.00", 12500.0},
		{"dollar sign", "$250.50", 250.50},
		{"shekel sign", "₪1,200", 1200.0},
		{"euro sign", "€99.99", 99.99},
		{"embedded spaces", " 3 000.25 ", 3000.25},
		{"negative", "-42.5", -42.5},
		{"non numeric", "garbage", 0.0},
		{"empty", "", 0.0},
		{"only symbols", "$,.", 0.0},
		{"multiple dots", "1.2.3", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, ParseAmount(tt.in))
			})
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", LangUnknown},
		{"english", "This insurance policy covers collision damage", LangEnglish},
		{"hebrew", "פוליסת ביטוח מקיף לרכב", LangHebrew},
		{"hebrew mixed with english", "Policy מספר פוליסה 12345 premium", LangHebrew},
		{"mostly digits", "123456 7890 42", LangMixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.in))
		})
	}
}

func TestNewResult_AllCanonicalSectionsPresent(t *testing.T) {
	r := NewResult()
	assert.Len(t, r.Sections, len(CanonicalSections))
	for _, name := range CanonicalSections {
		assert.Contains(t, r.Sections, name)
		assert.Empty(t, r.Sections[name])
	}
	assert.Equal(t, LangUnknown, r.Language)
}

func TestCountParameters_SkipsEmptyValues(t *testing.T) {
	r := NewResult()
	r.Section(SectionBasicInfo)["policy_number"] = "POL-1"
	r.Section(SectionBasicInfo)["insurer"] = ""
	r.Section(SectionFinancialInfo)["premium_monthly"] = 120.0
	r.Section(SectionCoverageDetails)["collision_coverage"] = CoverageItem{
		Amount: 50000, Description: "collision", Type: "collision_coverage",
	}

	assert.Equal(t, 3, r.CountParameters())
	assert.Equal(t, 3, r.NonEmptySections())
}

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue(""))
	assert.True(t, IsEmptyValue(map[string]any{}))
	assert.True(t, IsEmptyValue(Section{}))
	assert.False(t, IsEmptyValue("x"))
	assert.False(t, IsEmptyValue(0.0))
	assert.False(t, IsEmptyValue(CoverageItem{}))
}
