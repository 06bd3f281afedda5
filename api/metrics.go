/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Request counters and latency plus a few domain counters the operator
  actually watches: attendance entries recorded, settlements performed,
  adjustment installments. Exposed on GET /metrics via promhttp.

SEE ALSO:
  - server.go: mounts the /metrics endpoint and the middleware
*/
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wagebook_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wagebook_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	attendanceRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wagebook_attendance_entries_total",
		Help: "Daily attendance entries recorded.",
	})

	settlementsPerformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wagebook_settlements_total",
		Help: "Settlements performed, including final rollover settlements.",
	})

	adjustmentsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wagebook_settlement_adjustments_total",
		Help: "Partial payment installments applied to settlements.",
	})
)

// metricsMiddleware records one observation per request, labelled by the
// chi route pattern so path parameters do not explode cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
