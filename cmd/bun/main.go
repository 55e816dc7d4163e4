package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	accountmigrations "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/repositories/migrations"
	"github.com/moorad/the-beautiful-bot/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	migrators := map[string]*migrate.Migrator{
		"account": migrate.NewMigrator(db, accountmigrations.Migrations),
	}

	cliApp := &cli.App{
		Name: "bun",
		Commands: []*cli.Command{
			newMultiModuleDBCommand(migrators),
			newRiverCommand(cfg.Postgres.DSN),
		},
	}

	if err := cliApp.Run(append([]string{os.Args[0]}, flag.Args()...)); err != nil {
		log.Fatal(err)
	}
}

func newMultiModuleDBCommand(migrators map[string]*migrate.Migrator) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					for moduleName, migrator := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", moduleName)
						if err := migrator.Init(c.Context); err != nil {
							return fmt.Errorf("initializing migrations for module %s: %w", moduleName, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					for moduleName, migrator := range migrators {
						group, err := migrator.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", moduleName)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					for moduleName, migrator := range migrators {
						group, err := migrator.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", moduleName)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "MODULE NAME...",
				Action: func(c *cli.Context) error {
					migrator, moduleName, err := pickMigrator(migrators, c)
					if err != nil {
						return err
					}
					mf, err := migrator.CreateGoMigration(c.Context, strings.Join(c.Args().Tail(), "_"))
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "MODULE NAME...",
				Action: func(c *cli.Context) error {
					migrator, moduleName, err := pickMigrator(migrators, c)
					if err != nil {
						return err
					}
					files, err := migrator.CreateSQLMigrations(c.Context, strings.Join(c.Args().Tail(), "_"))
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					for moduleName, migrator := range migrators {
						ms, err := migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", moduleName)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}

func pickMigrator(migrators map[string]*migrate.Migrator, c *cli.Context) (*migrate.Migrator, string, error) {
	moduleName := c.Args().First()
	migrator, ok := migrators[moduleName]
	if !ok {
		return nil, "", fmt.Errorf("invalid module name: %s", moduleName)
	}
	return migrator, moduleName, nil
}

// newRiverCommand manages the job queue schema, which river versions itself.
func newRiverCommand(dsn string) *cli.Command {
	run := func(ctx context.Context, direction rivermigrate.Direction, opts *rivermigrate.MigrateOpts) error {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("failed to connect for river migrations: %w", err)
		}
		defer pool.Close()

		migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
		if err != nil {
			return fmt.Errorf("failed to create river migrator: %w", err)
		}
		res, err := migrator.Migrate(ctx, direction, opts)
		if err != nil {
			return fmt.Errorf("river migration failed: %w", err)
		}
		for _, v := range res.Versions {
			fmt.Printf("River migration %s: version %d\n", direction, v.Version)
		}
		if len(res.Versions) == 0 {
			fmt.Println("River schema already up to date")
		}
		return nil
	}

	return &cli.Command{
		Name:  "river",
		Usage: "job queue schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply every pending river migration",
				Action: func(c *cli.Context) error {
					return run(c.Context, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
				},
			},
			{
				Name:  "down",
				Usage: "roll back the last river migration",
				Action: func(c *cli.Context) error {
					return run(c.Context, rivermigrate.DirectionDown, &rivermigrate.MigrateOpts{MaxSteps: 1})
				},
			},
		},
	}
}
