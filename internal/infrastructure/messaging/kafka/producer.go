package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ronled86/InsuraIQ/internal/config"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	prom "github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// ErrProducerClosed is returned when publishing after Close.
var ErrProducerClosed = apperrors.New(apperrors.ErrCodeInternal, "kafka producer closed")

// Publisher is the event-publishing surface the application layer sees.
// Failures to publish never fail the originating request; callers log
// and move on.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, envelope *EventEnvelope) error
	Close() error
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerMetrics counts publish outcomes.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// Producer publishes envelopes to Kafka.
type Producer struct {
	writer   WriterInterface
	logger   logging.Logger
	closed   atomic.Bool
	metrics  ProducerMetrics
	registry *prom.Metrics
}

// ProducerOption customizes a Producer.
type ProducerOption func(*Producer)

// WithMetrics exports publish outcomes to the metrics registry alongside the
// internal counters.
func WithMetrics(m *prom.Metrics) ProducerOption {
	return func(p *Producer) { p.registry = m }
}

// NewProducer builds a Producer from the Kafka configuration.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger, opts ...ProducerOption) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "kafka brokers required")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	p := &Producer{writer: writer, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewProducerWithWriter builds a Producer over a caller-supplied writer.
func NewProducerWithWriter(writer WriterInterface, logger logging.Logger, opts ...ProducerOption) *Producer {
	p := &Producer{writer: writer, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish implements Publisher. The key controls partition affinity; use
// the user id so a user's events stay ordered.
func (p *Producer) Publish(ctx context.Context, topic string, key string, envelope *EventEnvelope) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if topic == "" {
		return apperrors.New(apperrors.ErrCodeValidation, "topic required")
	}
	if envelope == nil {
		return apperrors.New(apperrors.ErrCodeValidation, "envelope required")
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(envelope.EventType)},
			{Key: "schema_version", Value: []byte(envelope.SchemaVersion)},
		},
		Time: envelope.Timestamp,
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.MessagesFailed.Add(1)
		p.registry.RecordEventPublished(topic, "failure")
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to publish event")
	}

	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(value)))
	p.registry.RecordEventPublished(topic, "success")
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_type", envelope.EventType),
		logging.Int64("latency_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// Metrics returns a snapshot of the publish counters.
func (p *Producer) Metrics() (sent, failed, bytes int64) {
	return p.metrics.MessagesSent.Load(), p.metrics.MessagesFailed.Load(), p.metrics.BytesSent.Load()
}

// Close flushes and closes the writer. Idempotent.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed",
		logging.Int64("sent", p.metrics.MessagesSent.Load()),
		logging.Int64("failed", p.metrics.MessagesFailed.Load()),
	)
	return err
}

// NopPublisher satisfies Publisher when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, topic string, key string, envelope *EventEnvelope) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
