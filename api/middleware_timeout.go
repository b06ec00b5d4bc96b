package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// QueryTimeout bounds individual database operations issued by handlers.
const QueryTimeout = 10 * time.Second

// WithQueryTimeout derives a context for a single database operation.
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

// TimeoutMiddleware caps the total time a request may spend in its handler.
// The deadline propagates through the request context so database calls
// abort when it expires.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if ctx.Err() == context.DeadlineExceeded {
				zap.S().Warnw("request deadline exceeded",
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", timeout,
				)
			}
		})
	}
}
