// Package testutils starts the containers shared by the integration tests
// and prepares their schema.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/moorad/the-beautiful-bot/integration_tests/containers"
	"github.com/moorad/the-beautiful-bot/internal/observability"
)

// TestEnvironment holds the containers and connections of one test binary.
type TestEnvironment struct {
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DB            *bun.DB
	DSN           string
	NatsURL       string
	Observability observability.Observability
}

// Options selects which containers to start.
type Options struct {
	NATS bool
}

// NewTestEnvironment starts Postgres (and NATS when asked), connects bun and
// runs every migration.
func NewTestEnvironment(ctx context.Context, opts Options) (*TestEnvironment, error) {
	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}
	env := &TestEnvironment{
		PgContainer:   pgContainer,
		DSN:           dsn,
		Observability: observability.New(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	env.DB = bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), pgdialect.New())
	if err := RunMigrations(ctx, env.DB, dsn); err != nil {
		env.Close(ctx)
		return nil, err
	}

	if opts.NATS {
		natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
		if err != nil {
			env.Close(ctx)
			return nil, fmt.Errorf("failed to setup nats container: %w", err)
		}
		env.NatsContainer = natsContainer
		env.NatsURL = natsURL
	}
	return env, nil
}

// Reset empties every application table between tests.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	return CleanupDatabase(ctx, env.DB)
}

// Close releases connections and terminates the containers.
func (env *TestEnvironment) Close(ctx context.Context) {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
}
