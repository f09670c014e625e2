package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Provider call metrics
	ProviderCalls        *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec
	ProviderCallFailures *prometheus.CounterVec

	// Aggregation metrics
	AggregationsTotal   *prometheus.CounterVec
	AggregationDuration *prometheus.HistogramVec
	ProvidersPerFanout  *prometheus.HistogramVec
	RegisteredProviders prometheus.Gauge
}

// New registers the collectors on the default prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on the given registry. Tests pass
// their own prometheus.NewRegistry() to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		ProviderCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_calls_total",
				Help: "Total number of provider calls",
			},
			[]string{"provider", "operation", "status"},
		),

		ProviderCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provider_call_duration_seconds",
				Help:    "Provider call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "operation"},
		),

		ProviderCallFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_call_failures_total",
				Help: "Total number of failed provider calls",
			},
			[]string{"provider", "operation", "error_type"},
		),

		AggregationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aggregations_total",
				Help: "Total number of aggregation operations",
			},
			[]string{"kind"},
		),

		AggregationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aggregation_duration_seconds",
				Help:    "Aggregation operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		ProvidersPerFanout: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "providers_per_fanout",
				Help:    "Number of providers queried per fan-out",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
			},
			[]string{"kind"},
		),

		RegisteredProviders: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "registered_providers",
				Help: "Number of providers currently registered",
			},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Provider call metrics
func (m *Metrics) RecordProviderCall(provider, operation, status string, duration time.Duration) {
	m.ProviderCalls.WithLabelValues(provider, operation, status).Inc()
	m.ProviderCallDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// Provider call failure metrics
func (m *Metrics) RecordProviderFailure(provider, operation, errorType string) {
	m.ProviderCallFailures.WithLabelValues(provider, operation, errorType).Inc()
}

// Aggregation metrics
func (m *Metrics) RecordAggregation(kind string, providers int, duration time.Duration) {
	m.AggregationsTotal.WithLabelValues(kind).Inc()
	m.AggregationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.ProvidersPerFanout.WithLabelValues(kind).Observe(float64(providers))
}

// Registered provider gauge
func (m *Metrics) SetRegisteredProviders(count int) {
	m.RegisteredProviders.Set(float64(count))
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
