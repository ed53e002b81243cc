package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"property-search/internal/common/logger"
	"property-search/internal/common/metrics"
)

// LoggerMiddleware logs one line per request with its status and latency.
func LoggerMiddleware(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			fields := map[string]interface{}{
				"requestId":    middleware.GetReqID(r.Context()),
				"method":       r.Method,
				"path":         r.URL.Path,
				"status":       ww.Status(),
				"bytesWritten": ww.BytesWritten(),
				"durationMs":   time.Since(start).Milliseconds(),
			}
			if ww.Status() >= http.StatusInternalServerError {
				log.Warn("request finished", fields)
				return
			}
			log.Debug("request finished", fields)
		})
	}
}

// MetricsMiddleware records request count and latency labelled by the chi
// route pattern, so path parameters do not explode label cardinality.
func MetricsMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unknown"
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return "unknown"
}
