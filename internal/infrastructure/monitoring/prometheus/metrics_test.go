package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("GET", "/api/policies", 200, 25*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/policies", 200, 30*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/policies", 409, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/policies", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/policies", "409")))
}

func TestRecordExtraction(t *testing.T) {
	m := New()
	m.RecordExtraction(true, 0.85, 50*time.Millisecond)
	m.RecordExtraction(false, 0, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("failure")))
}

func TestRecordComparisonAndCache(t *testing.T) {
	m := New()
	m.RecordComparison(true, 10*time.Millisecond)
	m.RecordCacheAccess("comparison", true)
	m.RecordCacheAccess("comparison", false)
	m.RecordCacheAccess("comparison", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComparisonsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("comparison")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("comparison")))
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("GET", "/healthz", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "insuraiq_http_requests_total")
}

func TestNewRegistersIndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := New()
	b := New()
	a.PoliciesDeletedTotal.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.PoliciesDeletedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PoliciesDeletedTotal))
}
