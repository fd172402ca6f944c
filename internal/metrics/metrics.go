// Package metrics exposes Prometheus metrics for validation, classification,
// the HTTP API and the code review cache.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

// Metrics provides observability for the fiscal validator.
type Metrics struct {
	registry *prometheus.Registry

	// Validation outcomes by status
	Validations *prometheus.CounterVec

	// Classification outcomes by tipo
	Classifications *prometheus.CounterVec

	// Per-record processing latency
	RecordLatency prometheus.Histogram

	// Diagnostic events by kind and phase
	Events *prometheus.CounterVec

	// HTTP requests by method, route and status code
	Requests *prometheus.CounterVec

	// HTTP latency by route
	RequestLatency *prometheus.HistogramVec

	// Code review cache lookups by result
	ReviewCache *prometheus.CounterVec
}

// New creates a Metrics instance on its own registry, with Go runtime and
// process collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscal_validations_total",
			Help: "Total validated documents by status",
		}, []string{"status"}),

		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscal_classifications_total",
			Help: "Total classified documents by operation type",
		}, []string{"tipo"}),

		RecordLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fiscal_record_duration_seconds",
			Help:    "Duration of decoding, validating and classifying one record",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.1},
		}),

		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscal_validation_events_total",
			Help: "Diagnostic events emitted during validation by kind and phase",
		}, []string{"kind", "phase"}),

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscal_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fiscal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),

		ReviewCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscal_review_cache_lookups_total",
			Help: "Code review cache lookups by result",
		}, []string{"result"}),
	}
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe records one processed record. It satisfies processor.Observer.
func (m *Metrics) Observe(status model.Status, tipo model.Tipo, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Validations.WithLabelValues(string(status)).Inc()
	m.Classifications.WithLabelValues(string(tipo)).Inc()
	m.RecordLatency.Observe(elapsed.Seconds())
}

// ObserveValidation records a validation outcome outside the pipeline
func (m *Metrics) ObserveValidation(status model.Status) {
	if m != nil {
		m.Validations.WithLabelValues(string(status)).Inc()
	}
}

// ObserveClassification records a classification outcome outside the pipeline
func (m *Metrics) ObserveClassification(tipo model.Tipo) {
	if m != nil {
		m.Classifications.WithLabelValues(string(tipo)).Inc()
	}
}

// ObserveRequest records an HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.RequestLatency.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveCache records a review cache hit or miss
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ReviewCache.WithLabelValues(result).Inc()
}

// Sink returns a validator sink that counts diagnostic events
func (m *Metrics) Sink() validator.Sink {
	return validator.SinkFunc(func(e validator.Event) {
		if m != nil {
			m.Events.WithLabelValues(e.Kind, e.Phase).Inc()
		}
	})
}
