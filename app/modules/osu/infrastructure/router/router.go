package osurouter

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	osuhandlers "github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/handlers"
	"github.com/moorad/the-beautiful-bot/internal/handlerwrapper"
)

// CommandTimeout bounds one command, including every upstream call it makes.
const CommandTimeout = 30 * time.Second

// OsuRouter handles routing for osu! command events.
type OsuRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	publisher      message.Publisher
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewOsuRouter creates a new OsuRouter. Router metrics are registered only
// when a prometheus registry is given.
func NewOsuRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *OsuRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "tbb", "router")
		metricsBuilder = &builder
	}

	return &OsuRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds the middleware and registers the command handler.
func (r *OsuRouter) Configure(_ context.Context, handlers osuhandlers.Handlers, handlerMetrics handlerwrapper.Metrics) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for osu")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Timeout(CommandTimeout),
	)

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    handlerMetrics,
	}
	registerHandler(deps, chatevents.CommandReceivedV1, chatevents.ResponseSendV1, handlers.HandleCommand)
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    handlerwrapper.Metrics
}

// registerHandler registers a typed transforming handler whose results are
// published to publishTopic.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	publishTopic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "osu." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		publishTopic,
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.metrics,
			handler,
		),
	)
}

// Close stops the router.
func (r *OsuRouter) Close() error {
	return r.Router.Close()
}
