package containers

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pgDatabase = "tbb_test"
	pgUser     = "tbb"
	pgPassword = "tbb"
)

// PostgresImage is the default image; TBB_TEST_PG_IMAGE overrides it.
const PostgresImage = "postgres:16-alpine"

// SetupPostgresContainer starts Postgres and returns it with a DSN that
// both pgdriver and pgx accept.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	image := PostgresImage
	if v := os.Getenv("TBB_TEST_PG_IMAGE"); v != "" {
		image = v
	}

	pgContainer, err := postgres.Run(ctx, image,
		postgres.WithDatabase(pgDatabase),
		postgres.WithUsername(pgUser),
		postgres.WithPassword(pgPassword),
		postgres.WithSQLDriver("pgx"),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", pingURL).WithStartupTimeout(45*time.Second),
		),
	)
	if err != nil {
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	log.Printf("Postgres container %s ready", image)
	return pgContainer, dsn, nil
}

func pingURL(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), pgDatabase)
}
