package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts, durations, and in-flight gauge. Numeric
// path segments collapse to a placeholder to keep label cardinality bounded.
func Metrics(m *prometheus.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPActiveRequests.Inc()
			defer m.HTTPActiveRequests.Dec()

			start := time.Now()
			wrapped := newStatusWriter(w)
			next.ServeHTTP(wrapped, r)

			m.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), wrapped.status, time.Since(start))
		})
	}
}

func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg != "" && isDigits(seg) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
