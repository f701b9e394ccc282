package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

// LoggingConfig tunes the request logging middleware.
type LoggingConfig struct {
	// SkipPaths lists high-frequency paths that produce no log lines.
	SkipPaths []string
	// SlowThreshold promotes requests above this duration to Warn level.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig returns the standard logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// statusWriter captures the response status code and byte count.
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// RequestLogging logs each request with method, path, status, and duration.
// Server errors log at Error level, client errors and slow requests at Warn.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) Middleware {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			r = r.WithContext(ContextWithRequestID(r.Context(), requestID))
			w.Header().Set("X-Request-ID", requestID)

			start := time.Now()
			wrapped := newStatusWriter(w)
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", wrapped.status),
				logging.Int64("duration_ms", duration.Milliseconds()),
				logging.Int64("bytes", wrapped.bytes),
				logging.String("request_id", requestID),
			}
			if userID := ContextGetUserID(r.Context()); userID != "" {
				fields = append(fields, logging.String("user_id", userID))
			}

			switch {
			case wrapped.status >= 500:
				logger.Error("request completed with server error", fields...)
			case wrapped.status >= 400:
				logger.Warn("request completed with client error", fields...)
			case cfg.SlowThreshold > 0 && duration >= cfg.SlowThreshold:
				logger.Warn("request completed (slow)", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}
