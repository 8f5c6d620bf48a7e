package authz

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the module's Prometheus collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DecisionsTotal  *prometheus.CounterVec
	MutationsTotal  *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers the module collectors on the given
// registry. A nil registry gets a fresh one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authzkit_http_requests_total",
				Help: "Total number of HTTP requests handled by the authz module",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authzkit_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authzkit_decisions_total",
				Help: "Total number of enforcement decisions by outcome",
			},
			[]string{"allowed"},
		),
		MutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authzkit_mutations_total",
				Help: "Total number of rule mutations by operation and effect",
			},
			[]string{"op", "changed"},
		),
		registry: registry,
	}
	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.DecisionsTotal, m.MutationsTotal)
	return m
}

// Handler exposes the metrics registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDecision counts one enforcement outcome.
func (m *Metrics) ObserveDecision(allowed bool) {
	m.DecisionsTotal.WithLabelValues(strconv.FormatBool(allowed)).Inc()
}

// ObserveMutation counts one mutation by operation name and effect.
func (m *Metrics) ObserveMutation(op string, changed bool) {
	m.MutationsTotal.WithLabelValues(op, strconv.FormatBool(changed)).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument is router middleware recording request counts and latency per
// chi route pattern.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
