package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ronled86/InsuraIQ/internal/domain/extraction"
)

func baselineWith(section, key string, value any) *domain.Result {
	r := domain.NewResult()
	r.Section(section)[key] = value
	return r
}

func TestMergeOverlay_EmptyOverlayIsIdentity(t *testing.T) {
	base := baselineWith(domain.SectionBasicInfo, "insurer", "Alpha")
	merged := MergeOverlay(base, nil)
	assert.Same(t, base, merged)
	assert.Equal(t, "Alpha", merged.Section(domain.SectionBasicInfo)["insurer"])

	merged = MergeOverlay(base, map[string]any{})
	assert.Same(t, base, merged)
}

func TestMergeOverlay_NonEmptyOverlayOverrides(t *testing.T) {
	base := baselineWith(domain.SectionBasicInfo, "insurer", "Alpha")
	merged := MergeOverlay(base, map[string]any{
		"basic_info": map[string]any{"insurer": "Beta", "owner_name": "Dana"},
	})
	basic := merged.Section(domain.SectionBasicInfo)
	assert.Equal(t, "Beta", basic["insurer"])
	assert.Equal(t, "Dana", basic["owner_name"])
}

func TestMergeOverlay_EmptyValuesPreserveBaseline(t *testing.T) {
	base := baselineWith(domain.SectionBasicInfo, "insurer", "Alpha")
	merged := MergeOverlay(base, map[string]any{
		"basic_info": map[string]any{"insurer": "", "owner_name": nil},
	})
	basic := merged.Section(domain.SectionBasicInfo)
	assert.Equal(t, "Alpha", basic["insurer"])
	_, ok := basic["owner_name"]
	assert.False(t, ok)
}

func TestMergeOverlay_AliasResolution(t *testing.T) {
	base := domain.NewResult()
	merged := MergeOverlay(base, map[string]any{
		"financial_details": map[string]any{"deductible": 500.0},
		"costs":             map[string]any{"ignored": "x"},
	})
	fin := merged.Section(domain.SectionFinancialInfo)
	assert.Equal(t, 500.0, fin["deductible"])
	// Only one alias is claimed per canonical section; the other alias is
	// carried through as an extra section rather than dropped.
	assert.Contains(t, merged.Sections, "costs")
}

func TestMergeOverlay_KeyNormalization(t *testing.T) {
	base := domain.NewResult()
	merged := MergeOverlay(base, map[string]any{
		"Basic Info": map[string]any{"Owner-Name": "Dana", "Policy Number": "P1"},
	})
	basic := merged.Section(domain.SectionBasicInfo)
	assert.Equal(t, "Dana", basic["owner_name"])
	assert.Equal(t, "P1", basic["policy_number"])
}

func TestMergeOverlay_UnmatchedSectionCarriedThrough(t *testing.T) {
	base := domain.NewResult()
	merged := MergeOverlay(base, map[string]any{
		"regulatory_notes": map[string]any{"authority": "CMA", "empty": ""},
		"free_text":        "some scalar",
	})
	require.Contains(t, merged.Sections, "regulatory_notes")
	assert.Equal(t, "CMA", merged.Sections["regulatory_notes"]["authority"])
	_, ok := merged.Sections["regulatory_notes"]["empty"]
	assert.False(t, ok)

	require.Contains(t, merged.Sections, "free_text")
	assert.Equal(t, "some scalar", merged.Sections["free_text"]["value"])
}

func TestMergeOverlay_MalformedSectionValuesTolerated(t *testing.T) {
	base := baselineWith(domain.SectionFinancialInfo, "deductible", 100.0)
	assert.NotPanics(t, func() {
		merged := MergeOverlay(base, map[string]any{
			"financial_info": "not a map",
			"basic_info":     42,
		})
		assert.Equal(t, 100.0, merged.Section(domain.SectionFinancialInfo)["deductible"])
	})
}

func TestMergeOverlay_NilBaseline(t *testing.T) {
	merged := MergeOverlay(nil, map[string]any{
		"basic_info": map[string]any{"insurer": "Alpha"},
	})
	require.NotNil(t, merged)
	assert.Equal(t, "Alpha", merged.Section(domain.SectionBasicInfo)["insurer"])
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "premium_monthly", NormalizeKey("Premium Monthly"))
	assert.Equal(t, "owner_name", NormalizeKey("  Owner-Name "))
	assert.Equal(t, "plain", NormalizeKey("plain"))
}
