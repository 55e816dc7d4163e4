// Package observability builds the process logger, prometheus metrics,
// tracer and the ops HTTP server.
package observability

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the telemetry handles passed to every module.
type Observability struct {
	Logger  *slog.Logger
	Metrics *Metrics
	Tracer  trace.Tracer
}

// New uses the global tracer provider, which is a noop until an exporter
// is installed.
func New(logger *slog.Logger) Observability {
	return Observability{
		Logger:  logger,
		Metrics: NewMetrics(),
		Tracer:  otel.Tracer("github.com/moorad/the-beautiful-bot"),
	}
}
