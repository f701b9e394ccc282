package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ronled86/InsuraIQ/internal/config"
)

// Auth enforces the configured API key and resolves the request's user
// identity. With no API key configured every request passes; the identity
// comes from the X-User-ID header, falling back to the default owner.
// Probe and metrics paths in skipPaths bypass the key check entirely.
func Auth(cfg config.AuthConfig, skipPaths ...string) Middleware {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.APIKey != "" && !skip[r.URL.Path] {
				presented := r.Header.Get("X-API-Key")
				if subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.APIKey)) != 1 {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":{"code":"COMMON_003","message":"unauthorized"}}`))
					return
				}
			}

			userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
			if userID == "" {
				userID = cfg.DefaultOwner
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}
