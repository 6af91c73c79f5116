// ABOUTME: Feature flag middleware
// ABOUTME: Makes the flag manager available to handlers and later middleware through the context

package middleware

import (
	"net/http"

	"hackerhome-api/pkg/featureflags"
)

// FeatureFlagsMiddleware attaches manager to every request context
func FeatureFlagsMiddleware(manager featureflags.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager != nil {
				r = r.WithContext(featureflags.WithManager(r.Context(), manager))
			}
			next.ServeHTTP(w, r)
		})
	}
}
