package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
	"github.com/moorad/the-beautiful-bot/config"
	"github.com/moorad/the-beautiful-bot/internal/observability"
)

// runtime holds what every subcommand builds from the configuration.
type runtime struct {
	cfg      *config.Config
	obs      observability.Observability
	registry *backends.Registry
	closers  []io.Closer
}

// setup loads the configuration and builds the logger, telemetry and
// backends. Logs go to stderr so query output stays clean.
func setup(c *cli.Context, logs io.Writer) (*runtime, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
		File:   cfg.Observability.LogFile,
	}, logs)
	logger = logger.With(slog.String("environment", cfg.Observability.Environment))
	obs := observability.New(logger)

	registry := backends.NewRegistry(backends.Config{
		APIKey:          cfg.Osu.APIKey,
		OfficialBaseURL: cfg.Osu.OfficialBaseURL,
		GatariBaseURL:   cfg.Osu.GatariBaseURL,
		AkatsukiBaseURL: cfg.Osu.AkatsukiBaseURL,
		Timeout:         cfg.Upstream.Timeout,
		RatePerSecond:   cfg.Upstream.RatePerSecond,
		Burst:           cfg.Upstream.Burst,
	}, backends.ClientDeps{
		Logger:  logger,
		Tracer:  obs.Tracer,
		Metrics: obs.Metrics,
	})

	return &runtime{cfg: cfg, obs: obs, registry: registry, closers: []io.Closer{logCloser}}, nil
}

// openDB connects bun to Postgres. The handle is closed with the runtime.
func (r *runtime) openDB() *bun.DB {
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(r.cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	r.closers = append(r.closers, db)
	return db
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}
}
