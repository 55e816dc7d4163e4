package testutils

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	accountmigrations "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/repositories/migrations"
)

var appTables = []string{"linked_accounts"}

// RunMigrations applies river's schema and the account migrations.
func RunMigrations(ctx context.Context, db *bun.DB, dsn string) error {
	if err := runRiverMigrations(ctx, dsn); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}

	migrator := migrate.NewMigrator(db, accountmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run account migrations: %w", err)
	}
	return nil
}

func runRiverMigrations(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	_, err = migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	return err
}

// CleanupDatabase truncates the application tables and drops queued jobs.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to cleanup river jobs: %w", err)
	}
	return nil
}
