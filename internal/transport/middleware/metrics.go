package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AccessDenied    *prometheus.CounterVec
}

// NewMetrics creates and registers the HTTP collectors on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "training_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "training_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AccessDenied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "training_http_access_denied_total",
				Help: "Requests refused with 401 or 403",
			},
			[]string{"method", "route", "status"},
		),
	}
	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.AccessDenied)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware labels by route template so ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(rec.status)

		m.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		if rec.status == http.StatusUnauthorized || rec.status == http.StatusForbidden {
			m.AccessDenied.WithLabelValues(r.Method, route, status).Inc()
		}
	})
}
