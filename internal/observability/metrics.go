// Package observability provides Prometheus metrics for the engine and its HTTP surface.
package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engine metrics
	AggregationDuration *prometheus.HistogramVec
	AggregationErrors   *prometheus.CounterVec
	ReconciliationGap   *prometheus.GaugeVec

	// Export metrics
	ExportsTotal         *prometheus.CounterVec
	LastSuccessfulExport prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tokenomics"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		AggregationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of metric aggregations by operation",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		AggregationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "aggregation_errors_total",
			Help:      "Failed aggregations by operation and error kind",
		}, []string{"operation", "kind"}),
		ReconciliationGap: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "reconciliation_gap",
			Help:      "Absolute difference between a breakdown and the total supply it should add up to",
		}, []string{"breakdown"}),

		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "Export runs by result",
		}, []string{"result"}),
		LastSuccessfulExport: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful export",
		}),
	}
}

// Handler returns the scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ErrorKind labels an error by the domain taxonomy.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrInvalidHeight):
		return "invalid_height"
	case errors.Is(err, domain.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, domain.ErrQueryFailed):
		return "query_failed"
	default:
		return "other"
	}
}

// ObserveAggregation records the duration and outcome of one engine operation.
// It is safe to call on a nil receiver.
func (m *Metrics) ObserveAggregation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.AggregationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.AggregationErrors.WithLabelValues(operation, ErrorKind(err)).Inc()
	}
}

// SetReconciliationGap records a breakdown's discrepancy. It is safe to call on a nil receiver.
func (m *Metrics) SetReconciliationGap(breakdown string, gap float64) {
	if m == nil {
		return
	}
	if gap < 0 {
		gap = -gap
	}
	m.ReconciliationGap.WithLabelValues(breakdown).Set(gap)
}

// ObserveExport records an export run. It is safe to call on a nil receiver.
func (m *Metrics) ObserveExport(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ExportsTotal.WithLabelValues("error").Inc()
		return
	}
	m.ExportsTotal.WithLabelValues("ok").Inc()
	m.LastSuccessfulExport.SetToCurrentTime()
}

// Instrument wraps next with request counting and latency for route.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
