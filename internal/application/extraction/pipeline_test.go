package extraction

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ronled86/InsuraIQ/internal/domain/extraction"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// stubAdapter returns a fixed overlay for pipeline tests.
type stubAdapter struct {
	overlay map[string]any
}

func (s stubAdapter) Name() string { return "stub" }
func (s stubAdapter) Extract(_ context.Context, _ string) map[string]any {
	return s.overlay
}

func TestService_Extract_EmptyText(t *testing.T) {
	svc := NewService(nil, nil, time.Second, nil)
	_, err := svc.Extract(context.Background(), Document{Text: ""})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeExtractionEmptyText, apperrors.GetCode(err))
}

func TestService_Extract_DisabledAdapter(t *testing.T) {
	svc := NewService(nil, nil, time.Second, nil)
	result, err := svc.Extract(context.Background(), Document{Text: sampleEnglishPolicy})
	require.NoError(t, err)
	assert.False(t, result.AIEnhanced)
	assert.Equal(t, domain.LangEnglish, result.Language)
	assert.Greater(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.Equal(t, result.CountParameters(), result.TotalParameters)
}

func TestService_Extract_AdapterOverlayApplied(t *testing.T) {
	adapter := stubAdapter{overlay: map[string]any{
		"basic_info": map[string]any{"insurer": "Gamma Mutual"},
	}}
	svc := NewService(nil, adapter, time.Second, nil)

	result, err := svc.Extract(context.Background(), Document{Text: sampleEnglishPolicy})
	require.NoError(t, err)
	assert.True(t, result.AIEnhanced)
	assert.Equal(t, "Gamma Mutual", result.Section(domain.SectionBasicInfo)["insurer"])
}

func TestService_Extract_EmptyOverlayKeepsBaseline(t *testing.T) {
	svc := NewService(nil, stubAdapter{overlay: map[string]any{}}, time.Second, nil)
	result, err := svc.Extract(context.Background(), Document{Text: sampleEnglishPolicy})
	require.NoError(t, err)
	assert.False(t, result.AIEnhanced)
	assert.Equal(t, "Alpha Insurance Ltd", result.Section(domain.SectionBasicInfo)["insurer"])
}

func TestService_Extract_RecordsMetrics(t *testing.T) {
	m := prometheus.New()
	adapter := stubAdapter{overlay: map[string]any{
		"basic_info": map[string]any{"insurer": "Gamma Mutual"},
	}}
	svc := NewService(nil, adapter, time.Second, nil, WithMetrics(m))

	_, err := svc.Extract(context.Background(), Document{Text: sampleEnglishPolicy})
	require.NoError(t, err)
	_, err = svc.Extract(context.Background(), Document{Text: ""})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdapterRequestsTotal.WithLabelValues("stub", "success")))
}

func TestFlatten_EndToEnd(t *testing.T) {
	svc := NewService(nil, nil, time.Second, nil)
	doc := Document{Text: sampleEnglishPolicy, FilenameHint: "car_insurance.pdf", CategoryHint: "auto"}
	result, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)

	fields := Flatten(result, doc)
	assert.Equal(t, "Dana Levi", fields.OwnerName)
	assert.Equal(t, "Alpha Insurance Ltd", fields.Insurer)
	assert.Equal(t, "auto", fields.ProductType)
	assert.Equal(t, "POL-2024-117", fields.PolicyNumber)
	assert.Equal(t, "2024-01-01", fields.StartDate)
	assert.Equal(t, "2024-12-31", fields.EndDate)
	assert.Equal(t, 120.50, fields.PremiumMonthly)
	assert.Equal(t, 1446.0, fields.PremiumAnnual)
	assert.Equal(t, 1500.0, fields.Deductible)
	assert.Equal(t, 250000.0, fields.CoverageLimit)
	assert.Equal(t, "en", fields.PolicyLanguage)
	assert.Equal(t, result.Confidence, fields.ExtractionConfidence)
	assert.NotEmpty(t, fields.CoverageDetails)
	assert.Contains(t, fields.CoverageDetails, "collision_coverage")
	assert.Contains(t, fields.CoverageDetails, "exclusions")
}

func TestFlatten_DeductibleScenario(t *testing.T) {
	svc := NewService(nil, nil, time.Second, nil)
	doc := Document{Text: "Deductible: 1,500.00"}
	result, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)

	fields := Flatten(result, doc)
	assert.Equal(t, 1500.0, fields.Deductible)
}

func TestFlatten_GenericPremiumFallback(t *testing.T) {
	svc := NewService(nil, nil, time.Second, nil)
	doc := Document{Text: "Premium: 99.90"}
	result, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)

	fields := Flatten(result, doc)
	assert.Equal(t, 99.90, fields.PremiumMonthly)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"war", "racing", "intentional damage"},
		splitList("war, racing, intentional damage."))
	assert.Empty(t, splitList("  ,, ;"))
}
