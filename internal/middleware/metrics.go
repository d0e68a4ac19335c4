package middleware

import (
	"net/http"
	"time"

	"github.com/josh-kwaku/loan-servicing/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched route
// pattern. It must wrap the mux directly: the mux sets r.Pattern on the
// request it receives, and any middleware in between that copies the request
// hides it.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(r.Method, route, rec.status, time.Since(start))
		})
	}
}
