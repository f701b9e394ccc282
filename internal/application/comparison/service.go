package comparison

import (
	"context"
	"encoding/json"
	"time"

	rediscache "github.com/ronled86/InsuraIQ/internal/infrastructure/database/redis"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/messaging/kafka"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"

	"github.com/ronled86/InsuraIQ/internal/domain/policy"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// cacheName labels comparison-cache accesses in the metrics.
const cacheName = "comparison"

// Service loads policies, runs the comparison, and handles the surrounding
// concerns: result caching, history, and event publication.
type Service struct {
	repo      policy.Repository
	history   policy.CompareHistoryRepository
	cache     rediscache.Cache
	publisher kafka.Publisher
	logger    logging.Logger
	metrics   *prometheus.Metrics
	cacheTTL  time.Duration
	source    string
	topic     string
}

// Option customizes the comparison service.
type Option func(*Service)

// WithMetrics attaches the metrics registry.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithComparedTopic overrides the topic compared events are published to.
func WithComparedTopic(topic string) Option {
	return func(s *Service) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// NewService wires the comparison service. Cache and publisher accept the
// nop implementations when those subsystems are disabled.
func NewService(
	repo policy.Repository,
	history policy.CompareHistoryRepository,
	cache rediscache.Cache,
	publisher kafka.Publisher,
	cacheTTL time.Duration,
	logger logging.Logger,
	opts ...Option,
) *Service {
	if cache == nil {
		cache = rediscache.NopCache{}
	}
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	s := &Service{
		repo:      repo,
		history:   history,
		cache:     cache,
		publisher: publisher,
		logger:    logger.Named("comparison"),
		cacheTTL:  cacheTTL,
		source:    "insuraiq-api",
		topic:     kafka.TopicPolicyCompared,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompareByIDs compares the user's policies with the given ids. Results are
// cached per id set; history and events are recorded only on fresh runs.
func (s *Service) CompareByIDs(ctx context.Context, userID string, ids []int64) (*Result, error) {
	if len(ids) < 2 {
		return nil, apperrors.New(apperrors.ErrCodeInsufficientData,
			"at least 2 policies are required for comparison")
	}

	start := time.Now()
	key := rediscache.ComparisonKey(userID, ids)
	var cached Result
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCacheAccess(cacheName, true)
		s.logger.Debug("comparison served from cache", logging.String("key", key))
		return &cached, nil
	}
	s.metrics.RecordCacheAccess(cacheName, false)

	policies, err := s.repo.GetByIDs(ctx, ids, userID)
	if err != nil {
		return nil, err
	}
	if len(policies) < 2 {
		return nil, apperrors.New(apperrors.ErrCodeInsufficientData,
			"at least 2 policies are required for comparison").
			WithDetail("policies not found or not owned by the requesting user")
	}

	result, err := Compare(policies)
	if err != nil {
		s.metrics.RecordComparison(false, time.Since(start))
		return nil, err
	}
	s.metrics.RecordComparison(true, time.Since(start))

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache comparison result", logging.Err(err))
	}
	s.recordHistory(ctx, userID, ids, result)
	s.publishCompared(ctx, userID, ids)

	s.logger.Info("policies compared",
		logging.String("user_id", userID),
		logging.Int("policy_count", len(policies)),
	)
	return result, nil
}

// History returns the user's most recent comparison runs.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*policy.CompareRecord, error) {
	return s.history.ListRecent(ctx, userID, limit)
}

// InvalidateUser drops the user's cached comparisons. Called by the policy
// service after any mutation.
func (s *Service) InvalidateUser(ctx context.Context, userID string) {
	if n, err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate comparison cache", logging.Err(err))
	} else if n > 0 {
		s.logger.Debug("comparison cache invalidated",
			logging.String("user_id", userID), logging.Int64("entries", n))
	}
}

func (s *Service) recordHistory(ctx context.Context, userID string, ids []int64, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to serialize comparison for history", logging.Err(err))
		return
	}
	rec := &policy.CompareRecord{
		UserID:     userID,
		PolicyIDs:  ids,
		ResultJSON: string(data),
	}
	if err := s.history.Save(ctx, rec); err != nil {
		s.logger.Warn("failed to save comparison history", logging.Err(err))
	}
}

func (s *Service) publishCompared(ctx context.Context, userID string, ids []int64) {
	env, err := kafka.NewEventEnvelope("policy.compared", s.source, kafka.PolicyComparedPayload{
		UserID:      userID,
		PolicyIDs:   ids,
		PolicyCount: len(ids),
		ComparedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to build compared event", logging.Err(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topic, userID, env); err != nil {
		s.logger.Warn("failed to publish compared event", logging.Err(err))
	}
}
