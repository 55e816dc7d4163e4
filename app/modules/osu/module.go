package osu

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	osuservice "github.com/moorad/the-beautiful-bot/app/modules/osu/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
	osuhandlers "github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/handlers"
	osurouter "github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/router"
	"github.com/moorad/the-beautiful-bot/config"
	"github.com/moorad/the-beautiful-bot/internal/observability"
)

// Module represents the osu! command module.
type Module struct {
	OsuService    osuservice.Service
	OsuRouter     *osurouter.OsuRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewOsuModule wires the command service, its handlers and the router that
// consumes command events from subscriber and publishes replies to publisher.
func NewOsuModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	accounts osuservice.Accounts,
	registry *backends.Registry,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "osu.NewOsuModule initializing")

	service := osuservice.NewOsuService(accounts, registry, logger, obs.Metrics, obs.Tracer)
	handlers := osuhandlers.NewOsuHandlers(service, cfg.Bot.Prefix, cfg.Bot.Charts, logger, obs.Tracer, obs.Metrics)

	osuRouter := osurouter.NewOsuRouter(logger, router, subscriber, publisher, obs.Tracer, obs.Metrics.Registry)
	if err := osuRouter.Configure(ctx, handlers, obs.Metrics); err != nil {
		return nil, fmt.Errorf("failed to configure osu router: %w", err)
	}

	return &Module{
		OsuService:    service,
		OsuRouter:     osuRouter,
		observability: obs,
	}, nil
}

// Run keeps the module alive until ctx is done. The shared router is run by
// the caller.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting osu module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Osu module goroutine stopped")
}

// Close cancels the module context.
func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping osu module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
