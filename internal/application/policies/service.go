// Package policies implements the policy management service: CRUD with
// ownership enforcement, CSV bulk import, and document-driven import via the
// extraction pipeline.
package policies

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ronled86/InsuraIQ/internal/application/extraction"
	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/messaging/kafka"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/storage/minio"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// CacheInvalidator drops cached derived results for a user after a policy
// mutation. The comparison service satisfies it.
type CacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateUser(ctx context.Context, userID string) {}

// Service coordinates policy persistence, document storage, extraction, and
// event publication.
type Service struct {
	repo        policy.Repository
	extractor   *extraction.Service
	store       minio.DocumentStore
	publisher   kafka.Publisher
	invalidator CacheInvalidator
	logger      logging.Logger
	metrics     *prometheus.Metrics
	source      string
	topic       string
}

// Option customizes the policy service.
type Option func(*Service)

// WithMetrics attaches the metrics registry.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithExtractedTopic overrides the topic extracted events are published to.
func WithExtractedTopic(topic string) Option {
	return func(s *Service) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// NewService wires the policy service. Store, publisher, and invalidator
// accept nil when the corresponding subsystem is disabled.
func NewService(
	repo policy.Repository,
	extractor *extraction.Service,
	store minio.DocumentStore,
	publisher kafka.Publisher,
	invalidator CacheInvalidator,
	logger logging.Logger,
	opts ...Option,
) *Service {
	if store == nil {
		store = minio.NopStore{}
	}
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	if invalidator == nil {
		invalidator = nopInvalidator{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		repo:        repo,
		extractor:   extractor,
		store:       store,
		publisher:   publisher,
		invalidator: invalidator,
		logger:      logger.Named("policies"),
		source:      "insuraiq-api",
		topic:       kafka.TopicPolicyExtracted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new policy owned by userID.
func (s *Service) Create(ctx context.Context, userID string, p *policy.Policy) error {
	p.UserID = userID
	p.ProductType = policy.NormalizeProduct(p.ProductType)
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.invalidator.InvalidateUser(ctx, userID)
	s.metrics.RecordPolicyCreated("api")
	s.logger.Info("policy created",
		logging.Int64("policy_id", p.ID),
		logging.String("product_type", p.ProductType),
	)
	return nil
}

// Get returns one of the user's policies.
func (s *Service) Get(ctx context.Context, userID string, id int64) (*policy.Policy, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// List returns all of the user's policies.
func (s *Service) List(ctx context.Context, userID string) ([]*policy.Policy, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update applies changes to one of the user's policies.
func (s *Service) Update(ctx context.Context, userID string, p *policy.Policy) error {
	p.UserID = userID
	p.ProductType = policy.NormalizeProduct(p.ProductType)
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidator.InvalidateUser(ctx, userID)
	return nil
}

// Delete removes one of the user's policies along with its stored source
// document, if any.
func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	p, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	if p.DocumentKey != "" {
		if err := s.store.Delete(ctx, p.DocumentKey); err != nil {
			s.logger.Warn("failed to delete stored document",
				logging.String("key", p.DocumentKey), logging.Err(err))
		}
	}
	s.invalidator.InvalidateUser(ctx, userID)
	s.metrics.RecordPolicyDeleted()
	s.logger.Info("policy deleted", logging.Int64("policy_id", id))
	return nil
}

// ImportResult reports the outcome of a CSV bulk import.
type ImportResult struct {
	CreatedIDs []int64  `json:"created_ids"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors,omitempty"`
}

// ImportCSV bulk-creates policies from a CSV stream. Rows that fail to
// persist are skipped and reported; the rest are committed.
func (s *Service) ImportCSV(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	rows, err := policy.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{}
	for i, p := range rows {
		p.UserID = userID
		if err := s.repo.Create(ctx, p); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.CreatedIDs = append(result.CreatedIDs, p.ID)
		s.metrics.RecordPolicyCreated("csv")
	}
	if len(result.CreatedIDs) > 0 {
		s.invalidator.InvalidateUser(ctx, userID)
	}
	s.logger.Info("csv import finished",
		logging.Int("created", len(result.CreatedIDs)),
		logging.Int("skipped", result.Skipped),
	)
	return result, nil
}

// DocumentUpload carries an uploaded policy document: its extracted plain
// text plus the raw bytes for retention.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Text        string
	Raw         io.Reader
	Size        int64
}

// ImportDocument runs the extraction pipeline over an uploaded document,
// persists the resulting policy, and retains the original file in object
// storage.
func (s *Service) ImportDocument(ctx context.Context, userID string, doc DocumentUpload) (*policy.Policy, error) {
	extDoc := extraction.Document{Text: doc.Text, FilenameHint: doc.Filename}
	result, err := s.extractor.Extract(ctx, extDoc)
	if err != nil {
		return nil, err
	}
	fields := extraction.Flatten(result, extDoc)

	p := s.policyFromFields(fields, doc.Filename)
	p.UserID = userID
	if err := s.ensureUniqueNumber(ctx, p, doc.Filename); err != nil {
		return nil, err
	}

	if doc.Raw != nil {
		key, err := s.store.Upload(ctx, userID, doc.Filename, doc.ContentType, doc.Raw, doc.Size)
		if err != nil {
			s.logger.Warn("failed to retain source document", logging.Err(err))
		} else {
			p.DocumentKey = key
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if apperrors.GetCode(err) != apperrors.ErrCodePolicyAlreadyExists {
			return nil, err
		}
		// Concurrent import raced us on the policy number; retry once with
		// a regenerated one.
		p.PolicyNumber = generatePolicyNumber(doc.Filename)
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, err
		}
	}

	s.invalidator.InvalidateUser(ctx, userID)
	s.metrics.RecordPolicyCreated("document")
	s.publishExtracted(ctx, p)
	s.logger.Info("document imported",
		logging.Int64("policy_id", p.ID),
		logging.String("product_type", p.ProductType),
		logging.Float64("confidence", p.ExtractionConfidence),
		logging.Bool("ai_enhanced", p.AIEnhanced),
	)
	return p, nil
}

// policyFromFields builds a policy entity from flattened extraction output,
// filling the blanks a sparse document leaves behind.
func (s *Service) policyFromFields(fields extraction.PolicyFields, filename string) *policy.Policy {
	p := &policy.Policy{
		OwnerName:            fields.OwnerName,
		Insurer:              fields.Insurer,
		ProductType:          policy.NormalizeProduct(fields.ProductType),
		PolicyNumber:         strings.TrimSpace(fields.PolicyNumber),
		StartDate:            fields.StartDate,
		EndDate:              fields.EndDate,
		PremiumMonthly:       fields.PremiumMonthly,
		PremiumAnnual:        fields.PremiumAnnual,
		Deductible:           fields.Deductible,
		CoverageLimit:        fields.CoverageLimit,
		CoverageDetails:      fields.CoverageDetails,
		PolicyLanguage:       fields.PolicyLanguage,
		TermsAndConditions:   fields.TermsAndConditions,
		Notes:                "Imported from document: " + filename,
		Active:               true,
		ExtractionConfidence: fields.ExtractionConfidence,
		AIEnhanced:           fields.AIEnhanced,
		OriginalFilename:     filename,
	}
	if p.OwnerName == "" {
		p.OwnerName = fmt.Sprintf("Unknown (%s)", filename)
	}
	if p.Insurer == "" {
		p.Insurer = "Unknown"
	}
	if p.ProductType == "" {
		p.ProductType = "general"
	}
	return p
}

// ensureUniqueNumber fills in a generated policy number when the document
// yielded none, or when the extracted one is already taken.
func (s *Service) ensureUniqueNumber(ctx context.Context, p *policy.Policy, filename string) error {
	if p.PolicyNumber == "" {
		p.PolicyNumber = generatePolicyNumber(filename)
		return nil
	}
	exists, err := s.repo.ExistsByNumber(ctx, p.PolicyNumber)
	if err != nil {
		return err
	}
	if exists {
		p.PolicyNumber = generatePolicyNumber(filename)
	}
	return nil
}

// generatePolicyNumber derives a unique number from the source filename.
func generatePolicyNumber(filename string) string {
	var clean strings.Builder
	for _, r := range filename {
		if clean.Len() >= 10 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			clean.WriteRune(r)
		case r == '-', r == '_', r == '.':
			clean.WriteRune(r)
		}
	}
	base := clean.String()
	if base == "" {
		base = "DOC"
	}
	return fmt.Sprintf("PDF-%s-%s", base, uuid.New().String()[:8])
}

func (s *Service) publishExtracted(ctx context.Context, p *policy.Policy) {
	env, err := kafka.NewEventEnvelope("policy.extracted", s.source, kafka.PolicyExtractedPayload{
		PolicyID:     p.ID,
		UserID:       p.UserID,
		ProductType:  p.ProductType,
		PolicyNumber: p.PolicyNumber,
		Confidence:   p.ExtractionConfidence,
		AIEnhanced:   p.AIEnhanced,
		ExtractedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to build extracted event", logging.Err(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topic, p.UserID, env); err != nil {
		s.logger.Warn("failed to publish extracted event", logging.Err(err))
	}
}

// OpenDocument streams the stored source document for one of the user's
// policies.
func (s *Service) OpenDocument(ctx context.Context, userID string, id int64) (io.ReadCloser, *policy.Policy, error) {
	p, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	if p.DocumentKey == "" {
		return nil, nil, apperrors.New(apperrors.ErrCodeNotFound, "no document stored for this policy")
	}
	rc, err := s.store.Download(ctx, p.DocumentKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, p, nil
}
