// Package prometheus registers and exposes the platform metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Default histogram buckets.
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultConfidenceBuckets   = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
)

// Metrics holds all collectors registered by the platform.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPActiveRequests  prometheus.Gauge

	// Policy layer
	PoliciesCreatedTotal *prometheus.CounterVec
	PoliciesDeletedTotal prometheus.Counter

	// Extraction pipeline
	ExtractionsTotal     *prometheus.CounterVec
	ExtractionDuration   prometheus.Histogram
	ExtractionConfidence prometheus.Histogram
	AdapterRequestsTotal *prometheus.CounterVec

	// Comparison and advisor
	ComparisonsTotal   *prometheus.CounterVec
	ComparisonDuration prometheus.Histogram
	QuoteRequestsTotal *prometheus.CounterVec

	// Infrastructure
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	factory := promauto.With(registry)

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})
	m.HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insuraiq_http_request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: DefaultHTTPDurationBuckets,
	}, []string{"method", "path"})
	m.HTTPActiveRequests = factory.NewGauge(prometheus.GaugeOpts{
		Name: "insuraiq_http_active_requests",
		Help: "In-flight HTTP requests",
	})

	m.PoliciesCreatedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_policies_created_total",
		Help: "Policies created, by ingestion source",
	}, []string{"source"})
	m.PoliciesDeletedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "insuraiq_policies_deleted_total",
		Help: "Policies deleted",
	})

	m.ExtractionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_extractions_total",
		Help: "Document extraction runs",
	}, []string{"status"})
	m.ExtractionDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "insuraiq_extraction_duration_seconds",
		Help:    "Document extraction duration",
		Buckets: DefaultHTTPDurationBuckets,
	})
	m.ExtractionConfidence = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "insuraiq_extraction_confidence",
		Help:    "Extraction confidence score distribution",
		Buckets: DefaultConfidenceBuckets,
	})
	m.AdapterRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_adapter_requests_total",
		Help: "AI enrichment adapter calls",
	}, []string{"adapter", "status"})

	m.ComparisonsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_comparisons_total",
		Help: "Policy comparison runs",
	}, []string{"status"})
	m.ComparisonDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "insuraiq_comparison_duration_seconds",
		Help:    "Policy comparison duration",
		Buckets: DefaultHTTPDurationBuckets,
	})
	m.QuoteRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_quote_requests_total",
		Help: "Quote requests, by serving source",
	}, []string{"source"})

	m.CacheHitsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_cache_hits_total",
		Help: "Cache hits",
	}, []string{"cache"})
	m.CacheMissesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_cache_misses_total",
		Help: "Cache misses",
	}, []string{"cache"})
	m.EventsPublished = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "insuraiq_events_published_total",
		Help: "Domain events published",
	}, []string{"topic", "status"})

	return m
}

// Handler returns the scrape endpoint handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The Record helpers below tolerate a nil receiver so callers can hold an
// optional *Metrics without guarding every call site.

// RecordHTTPRequest records a completed request.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordExtraction records an extraction run and its confidence.
func (m *Metrics) RecordExtraction(success bool, confidence float64, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.ExtractionsTotal.WithLabelValues(status).Inc()
	if success {
		m.ExtractionConfidence.Observe(confidence)
	}
	m.ExtractionDuration.Observe(duration.Seconds())
}

// RecordAdapterRequest records one AI enrichment adapter call.
func (m *Metrics) RecordAdapterRequest(adapter, status string) {
	if m == nil {
		return
	}
	m.AdapterRequestsTotal.WithLabelValues(adapter, status).Inc()
}

// RecordComparison records a comparison run.
func (m *Metrics) RecordComparison(success bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.ComparisonsTotal.WithLabelValues(status).Inc()
	m.ComparisonDuration.Observe(duration.Seconds())
}

// RecordCacheAccess records a cache hit or miss.
func (m *Metrics) RecordCacheAccess(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordPolicyCreated records a created policy by ingestion source.
func (m *Metrics) RecordPolicyCreated(source string) {
	if m == nil {
		return
	}
	m.PoliciesCreatedTotal.WithLabelValues(source).Inc()
}

// RecordPolicyDeleted records a deleted policy.
func (m *Metrics) RecordPolicyDeleted() {
	if m == nil {
		return
	}
	m.PoliciesDeletedTotal.Inc()
}

// RecordQuoteRequest records a quote request by serving source.
func (m *Metrics) RecordQuoteRequest(source string) {
	if m == nil {
		return
	}
	m.QuoteRequestsTotal.WithLabelValues(source).Inc()
}

// RecordEventPublished records one domain event publication attempt.
func (m *Metrics) RecordEventPublished(topic, status string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(topic, status).Inc()
}
