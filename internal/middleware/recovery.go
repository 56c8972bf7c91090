package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// Recovery turns a panic into a 500 response and logs the stack. Sentry
// reporting happens in the Sentry middleware, which re-raises for this one.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err := fmt.Errorf("panic: %v", rec)
			GetLogger(r.Context()).Error("panic recovered",
				"error", err,
				"path", r.URL.Path,
				"request_id", GetRequestID(r.Context()),
				"stack", string(debug.Stack()),
			)
			respondInternalError(w, r, err)
		}()

		next.ServeHTTP(w, r)
	})
}
