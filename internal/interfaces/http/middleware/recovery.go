package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

// Recovery converts handler panics into 500 responses instead of dropped
// connections.
func Recovery(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked",
						logging.Any("panic", rec),
						logging.String("path", r.URL.Path),
						logging.String("stack", string(debug.Stack())),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":{"code":"COMMON_001","message":"internal server error"}}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
