// Package requesttime provides middleware for request-scoped time.
// Every operation within a single HTTP request sees the same "now", so birth
// date checks and age calculations agree with each other.
package requesttime

import (
	"net/http"
	"time"

	"census/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request
// and stores it in the context for consistent time references throughout the request.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock is Middleware with an injected clock.
func WithClock(clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
