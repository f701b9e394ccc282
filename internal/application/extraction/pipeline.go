package extraction

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/ronled86/InsuraIQ/internal/domain/extraction"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
	"github.com/ronled86/InsuraIQ/internal/intelligence/docai"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// Service orchestrates the extraction pipeline: rule-based baseline, optional
// model-assisted overlay, merge, and confidence scoring.  Each call operates
// on its own data; a single Service is safe for concurrent use.
type Service struct {
	extractor      *Extractor
	adapter        docai.Adapter
	adapterTimeout time.Duration
	logger         logging.Logger
	metrics        *prometheus.Metrics
}

// Option customizes the pipeline service.
type Option func(*Service)

// WithMetrics attaches the metrics registry.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the pipeline service.  A nil adapter disables model
// assistance; a nil logger discards output.
func NewService(rules *RuleSet, adapter docai.Adapter, adapterTimeout time.Duration, logger logging.Logger, opts ...Option) *Service {
	if adapter == nil {
		adapter = docai.Disabled{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if adapterTimeout <= 0 {
		adapterTimeout = 20 * time.Second
	}
	s := &Service{
		extractor:      NewExtractor(rules),
		adapter:        adapter,
		adapterTimeout: adapterTimeout,
		logger:         logger.Named("extraction"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract runs the full pipeline over one document.  Empty text fails with
// ErrCodeExtractionEmptyText; everything else resolves to a best-effort
// result, adapter trouble included.
func (s *Service) Extract(ctx context.Context, doc Document) (*domain.Result, error) {
	start := time.Now()
	if doc.Text == "" {
		s.metrics.RecordExtraction(false, 0, time.Since(start))
		return nil, apperrors.New(apperrors.ErrCodeExtractionEmptyText, "document text is empty")
	}

	baseline := s.extractor.Extract(doc)

	overlay := s.runAdapter(ctx, doc.Text)
	result := MergeOverlay(baseline, overlay)
	result.AIEnhanced = len(overlay) > 0

	ScoreConfidence(result, len(doc.Text))
	s.metrics.RecordExtraction(true, result.Confidence, time.Since(start))

	s.logger.Info("document extracted",
		logging.String("language", result.Language),
		logging.Int("parameters", result.TotalParameters),
		logging.Float64("confidence", result.Confidence),
		logging.Bool("ai_enhanced", result.AIEnhanced),
	)
	return result, nil
}

// runAdapter invokes the model-assisted adapter under its own timeout.  Any
// failure, including a cancelled context, yields an empty overlay so the
// pipeline proceeds with the baseline alone.
func (s *Service) runAdapter(ctx context.Context, text string) map[string]any {
	if _, disabled := s.adapter.(docai.Disabled); disabled {
		return map[string]any{}
	}
	adapterCtx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
	defer cancel()

	overlay := s.adapter.Extract(adapterCtx, text)
	if len(overlay) == 0 {
		s.logger.Debug("adapter produced no overlay", logging.String("adapter", s.adapter.Name()))
		s.metrics.RecordAdapterRequest(s.adapter.Name(), "empty")
		return overlay
	}
	s.metrics.RecordAdapterRequest(s.adapter.Name(), "success")
	return overlay
}

// PolicyFields is the flattened view of an extraction result in the shape the
// persistence layer stores.
type PolicyFields struct {
	OwnerName            string  `json:"owner_name"`
	Insurer              string  `json:"insurer"`
	ProductType          string  `json:"product_type"`
	PolicyNumber         string  `json:"policy_number"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	PremiumMonthly       float64 `json:"premium_monthly"`
	PremiumAnnual        float64 `json:"premium_annual"`
	Deductible           float64 `json:"deductible"`
	CoverageLimit        float64 `json:"coverage_limit"`
	CoverageDetails      string  `json:"coverage_details"`
	PolicyLanguage       string  `json:"policy_language"`
	TermsAndConditions   string  `json:"terms_and_conditions"`
	ContactPhone         string  `json:"contact_phone"`
	ContactEmail         string  `json:"contact_email"`
	ExtractionConfidence float64 `json:"extraction_confidence"`
	AIEnhanced           bool    `json:"ai_enhanced"`
}

func sectionString(sec domain.Section, key string) string {
	if v, ok := sec[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func sectionNumber(sec domain.Section, key string) float64 {
	v, ok := sec[key]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		return domain.ParseAmount(t)
	default:
		return 0
	}
}

// Flatten maps an extraction result onto the policy field shape.  The
// coverage_details section (plus extracted exclusions) is serialized to JSON;
// serialization problems leave the field empty rather than failing.
func Flatten(result *domain.Result, doc Document) PolicyFields {
	basic := result.Section(domain.SectionBasicInfo)
	fin := result.Section(domain.SectionFinancialInfo)
	terms := result.Section(domain.SectionPolicyTerms)
	contact := result.Section(domain.SectionContactInfo)
	excl := result.Section(domain.SectionExclusions)

	fields := PolicyFields{
		OwnerName:            sectionString(basic, "owner_name"),
		Insurer:              sectionString(basic, "insurer"),
		ProductType:          ResolveCategory(doc),
		PolicyNumber:         sectionString(basic, "policy_number"),
		StartDate:            sectionString(terms, "start_date"),
		EndDate:              sectionString(terms, "end_date"),
		PremiumMonthly:       sectionNumber(fin, "premium_monthly"),
		PremiumAnnual:        sectionNumber(fin, "premium_annual"),
		Deductible:           sectionNumber(fin, "deductible"),
		CoverageLimit:        sectionNumber(fin, "coverage_limit"),
		PolicyLanguage:       result.Language,
		ContactPhone:         sectionString(contact, "contact_phone"),
		ContactEmail:         sectionString(contact, "contact_email"),
		ExtractionConfidence: result.Confidence,
		AIEnhanced:           result.AIEnhanced,
	}

	// A bare "premium" match stands in for the monthly premium when no
	// explicit monthly figure was found.
	if fields.PremiumMonthly == 0 {
		fields.PremiumMonthly = sectionNumber(fin, "premium")
	}

	coverage := map[string]any{}
	for k, v := range result.Section(domain.SectionCoverageDetails) {
		coverage[k] = v
	}
	if g := sectionString(excl, "general_exclusions"); g != "" {
		coverage["exclusions"] = splitList(g)
	}
	if len(coverage) > 0 {
		if b, err := json.Marshal(coverage); err == nil {
			fields.CoverageDetails = string(b)
		}
	}

	if t := sectionString(result.Section(domain.SectionSpecialProvisions), "special_conditions"); t != "" {
		fields.TermsAndConditions = t
	}
	return fields
}

// splitList breaks a comma/semicolon separated phrase into trimmed items.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if item := strings.Trim(p, " \t."); item != "" {
			out = append(out, item)
		}
	}
	return out
}
