package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/moorad/the-beautiful-bot/app/modules/account"
	"github.com/moorad/the-beautiful-bot/app/modules/osu"
	"github.com/moorad/the-beautiful-bot/internal/eventbus"
	"github.com/moorad/the-beautiful-bot/internal/observability"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "consume command events and publish replies",
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := setup(c, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.close()

	logger := rt.obs.Logger
	logger.InfoContext(ctx, "Starting The Beautiful Bot")

	db := rt.openDB()

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		URL:              rt.cfg.NATS.URL,
		QueueGroup:       rt.cfg.NATS.QueueGroup,
		SubscribersCount: rt.cfg.NATS.SubscribersCount,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	defer bus.Close()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	accountModule, err := account.NewAccountModule(ctx, rt.cfg, rt.obs, db, rt.registry, bus)
	if err != nil {
		return err
	}
	osuModule, err := osu.NewOsuModule(ctx, rt.cfg, rt.obs, accountModule.AccountService, rt.registry, router, bus, bus)
	if err != nil {
		return err
	}

	ops := observability.NewOpsServer(rt.cfg.Observability.MetricsAddress, observability.NewOpsRouter(rt.obs.Metrics.Registry,
		map[string]observability.ReadinessCheck{
			"postgres": db.PingContext,
			"queue":    accountModule.Queue.HealthCheck,
			"nats": func(context.Context) error {
				if !bus.Ready() {
					return errors.New("not connected")
				}
				return nil
			},
		},
	), logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go accountModule.Run(ctx, &wg)
	go osuModule.Run(ctx, &wg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return router.Run(gctx) })
	g.Go(func() error { return ops.Run(gctx) })

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Service stopped with error", slog.String("error", err.Error()))
	}

	logger.Info("Shutting down")
	cancel()
	if cerr := osuModule.Close(); cerr != nil {
		logger.Error("Error closing osu module", slog.String("error", cerr.Error()))
	}
	if cerr := accountModule.Close(); cerr != nil {
		logger.Error("Error closing account module", slog.String("error", cerr.Error()))
	}
	if cerr := osuModule.OsuRouter.Close(); cerr != nil {
		logger.Error("Error closing router", slog.String("error", cerr.Error()))
	}
	wg.Wait()

	logger.Info("Shutdown complete")
	return err
}
