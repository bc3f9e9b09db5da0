package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrpayroll/internal/platform/metrics"
)

// Metrics records request counts and latency keyed by the chi route pattern,
// so ids in the path do not explode label cardinality.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newRecorder(w)
			next.ServeHTTP(recorder, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			collector.RecordRequest(path, r.Method, recorder.Status(), time.Since(start))
		})
	}
}
