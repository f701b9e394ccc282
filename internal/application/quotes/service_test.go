package quotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
)

func TestFallbackQuotes_Deterministic(t *testing.T) {
	req := Request{ProductType: "auto", CoverageLimit: 300_000, Deductible: 2_000}
	quotes := FallbackQuotes(req)
	require.Len(t, quotes, 3)

	// base = max(20, 300000/10000 - 2000/1000) = 28
	assert.Equal(t, Quote{Insurer: "Alpha", Monthly: 28.0, Deductible: 2000, Coverage: 300000}, quotes[0])
	assert.Equal(t, Quote{Insurer: "Beta", Monthly: 26.6, Deductible: 2400, Coverage: 294000}, quotes[1])
	assert.Equal(t, Quote{Insurer: "Gamma", Monthly: 30.8, Deductible: 1600, Coverage: 315000}, quotes[2])
}

func TestFallbackQuotes_BaseFloor(t *testing.T) {
	quotes := FallbackQuotes(Request{CoverageLimit: 0, Deductible: 50_000})
	assert.Equal(t, 20.0, quotes[0].Monthly)
}

func TestFetch_ExternalSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quotes", r.URL.Path)
		assert.Equal(t, "auto", r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]Quote{
			{Insurer: "External", Monthly: 42, Deductible: 500, Coverage: 100000},
		})
	}))
	defer srv.Close()

	svc := NewService(Config{ExternalURL: srv.URL, APIKey: "secret"}, nil)
	quotes := svc.Fetch(context.Background(), Request{ProductType: "auto", CoverageLimit: 100000, Deductible: 500})
	require.Len(t, quotes, 1)
	assert.Equal(t, "External", quotes[0].Insurer)
}

func TestFetch_ExternalFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService(Config{ExternalURL: srv.URL}, nil)
	quotes := svc.Fetch(context.Background(), Request{CoverageLimit: 300_000, Deductible: 2_000})
	require.Len(t, quotes, 3)
	assert.Equal(t, "Alpha", quotes[0].Insurer)
}

func TestFetch_NoExternalConfigured(t *testing.T) {
	svc := NewService(Config{}, nil)
	quotes := svc.Fetch(context.Background(), Request{CoverageLimit: 100_000})
	require.Len(t, quotes, 3)
}

func TestFetch_RecordsServingSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]Quote{{Insurer: "External", Monthly: 42}})
	}))
	defer srv.Close()

	m := prometheus.New()
	external := NewService(Config{ExternalURL: srv.URL}, nil, WithMetrics(m))
	external.Fetch(context.Background(), Request{CoverageLimit: 100_000})

	fallback := NewService(Config{}, nil, WithMetrics(m))
	fallback.Fetch(context.Background(), Request{CoverageLimit: 100_000})
	fallback.Fetch(context.Background(), Request{CoverageLimit: 200_000})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuoteRequestsTotal.WithLabelValues("external")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuoteRequestsTotal.WithLabelValues("fallback")))
}

func TestFetch_MalformedExternalPayloadFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	svc := NewService(Config{ExternalURL: srv.URL}, nil)
	quotes := svc.Fetch(context.Background(), Request{CoverageLimit: 100_000})
	require.Len(t, quotes, 3)
	assert.Equal(t, "Alpha", quotes[0].Insurer)
}
