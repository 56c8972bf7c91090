package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultTimeout bounds a storefront request, upstream calls included.
const DefaultTimeout = 15 * time.Second

// Timeout attaches a deadline to the request context. Upstream clients
// observe it and fail with an unavailable error once it passes, which
// handlers render as 503.
func Timeout(timeout ...time.Duration) func(http.Handler) http.Handler {
	d := DefaultTimeout
	if len(timeout) > 0 && timeout[0] > 0 {
		d = timeout[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
