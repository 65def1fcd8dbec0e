package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline gives a single route more time than the server-wide timeouts:
// the request context is cancelled after d and the connection write
// deadline is pushed out to match.
func Deadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			// Unsupported by recorders and some wrappers.
			_ = http.NewResponseController(w).SetWriteDeadline(time.Now().Add(d))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
