package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// slowRequestThreshold marks requests worth a warning log.
const slowRequestThreshold = 1 * time.Second

// MetricsMiddleware records timing and status for every request except the
// health check, the metrics endpoints themselves and the long-lived
// websocket routes.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/health" || strings.HasPrefix(path, "/debug/metrics") || strings.HasPrefix(path, "/ws/") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		trace := RequestTrace{
			RequestID: uuid.New().String(),
			Method:    r.Method,
			Path:      path,
			Status:    rec.status,
			StartTime: start,
			Duration:  duration,
		}
		if rec.status >= 400 {
			trace.Error = http.StatusText(rec.status)
		}
		Metrics().Record(trace)

		if duration > slowRequestThreshold {
			zap.S().Warnw("slow request",
				"requestId", trace.RequestID,
				"method", r.Method,
				"path", path,
				"status", rec.status,
				"duration", duration,
			)
		}
	})
}

// statusRecorder captures the status code written by a handler. It forwards
// Hijack so websocket upgrades keep working behind the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rec.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("response writer does not support hijacking")
}
