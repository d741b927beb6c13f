package middleware

import (
	"net/http"
	"strconv"
	"time"

	"hotelbooking/pkg/metrics"
)

// RouteFunc maps a request onto a low-cardinality route label.
type RouteFunc func(r *http.Request) string

// Metrics records request counts and latency per route.
func Metrics(m *metrics.Metrics, route RouteFunc) func(http.Handler) http.Handler {
	if route == nil {
		route = func(r *http.Request) string { return r.URL.Path }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			label := route(r)
			m.HTTPRequestDuration.WithLabelValues(r.Method, label).Observe(time.Since(start).Seconds())
			m.HTTPRequestsTotal.WithLabelValues(r.Method, label, strconv.Itoa(wrapped.statusCode)).Inc()
		})
	}
}
