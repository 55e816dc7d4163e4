package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "tbb"

// Metrics owns the prometheus collectors for the whole process. It satisfies
// the narrow metrics interfaces of the handler wrapper, the services and the
// upstream clients.
type Metrics struct {
	Registry *prometheus.Registry

	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	handlers          *prometheus.CounterVec
	handlerDuration   *prometheus.HistogramVec
	upstream          *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	commands          *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"service", "operation", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "service_operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		handlers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_messages_total",
			Help:      "Messages handled by outcome.",
		}, []string{"handler", "outcome"}),
		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Message handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler"}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by outcome.",
		}, []string{"backend", "endpoint", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"backend", "endpoint"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Chat commands by name and outcome.",
		}, []string{"command", "outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.operations, m.operationDuration,
		m.handlers, m.handlerDuration,
		m.upstream, m.upstreamDuration,
		m.commands,
	)
	return m
}

func (m *Metrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "attempt").Inc()
}

func (m *Metrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "success").Inc()
}

func (m *Metrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "failure").Inc()
}

func (m *Metrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.operationDuration.WithLabelValues(service, operation).Observe(d.Seconds())
}

func (m *Metrics) RecordHandlerAttempt(_ context.Context, handler string) {
	m.handlers.WithLabelValues(handler, "attempt").Inc()
}

func (m *Metrics) RecordHandlerSuccess(_ context.Context, handler string) {
	m.handlers.WithLabelValues(handler, "success").Inc()
}

func (m *Metrics) RecordHandlerFailure(_ context.Context, handler string) {
	m.handlers.WithLabelValues(handler, "failure").Inc()
}

func (m *Metrics) RecordHandlerDuration(_ context.Context, handler string, d time.Duration) {
	m.handlerDuration.WithLabelValues(handler).Observe(d.Seconds())
}

func (m *Metrics) RecordUpstreamRequest(_ context.Context, backend, endpoint, outcome string, d time.Duration) {
	m.upstream.WithLabelValues(backend, endpoint, outcome).Inc()
	m.upstreamDuration.WithLabelValues(backend, endpoint).Observe(d.Seconds())
}

func (m *Metrics) RecordCommand(_ context.Context, command, outcome string) {
	m.commands.WithLabelValues(command, outcome).Inc()
}
