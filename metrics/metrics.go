package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// ClientSubsystem is the prometheus subsystem for outgoing REST calls.
	ClientSubsystem = "api_client"

	// DefaultNamespace is used when no namespace is configured.
	DefaultNamespace = "wxapis"
)

// Metricer records one outgoing call. The returned func is invoked once with the call outcome.
type Metricer interface {
	RecordRequest(service, operation string) func(outcome string)
}

// Metrics tracks outgoing request counts, durations and outcomes per service operation.
type Metrics struct {
	requestsTotal          *prometheus.CounterVec
	requestDurationSeconds *prometheus.HistogramVec
	responsesTotal         *prometheus.CounterVec
}

var _ Metricer = (*Metrics)(nil)

// NewMetrics registers the client collectors with reg under the given namespace.
func NewMetrics(ns string, reg prometheus.Registerer) *Metrics {
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: ClientSubsystem,
			Name:      "requests_total",
			Help:      "Total REST requests initiated",
		}, []string{
			"service",
			"operation",
		}),
		requestDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: ClientSubsystem,
			Name:      "request_duration_seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			Help:      "Histogram of REST request durations",
		}, []string{
			"service",
			"operation",
		}),
		responsesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: ClientSubsystem,
			Name:      "responses_total",
			Help:      "Total REST requests completed, by outcome",
		}, []string{
			"service",
			"operation",
			"outcome",
		}),
	}
}

func (m *Metrics) RecordRequest(service, operation string) func(outcome string) {
	m.requestsTotal.WithLabelValues(service, operation).Inc()
	timer := prometheus.NewTimer(m.requestDurationSeconds.WithLabelValues(service, operation))
	return func(outcome string) {
		timer.ObserveDuration()
		m.responsesTotal.WithLabelValues(service, operation, outcome).Inc()
	}
}

type NoopMetrics struct{}

var _ Metricer = NoopMetrics{}

func (NoopMetrics) RecordRequest(service, operation string) func(outcome string) {
	return func(string) {}
}

// RequestsTotal exposes the request counter for a service operation.
func (m *Metrics) RequestsTotal(service, operation string) prometheus.Counter {
	return m.requestsTotal.WithLabelValues(service, operation)
}

// ResponsesTotal exposes the response counter for a service operation and outcome.
func (m *Metrics) ResponsesTotal(service, operation, outcome string) prometheus.Counter {
	return m.responsesTotal.WithLabelValues(service, operation, outcome)
}
