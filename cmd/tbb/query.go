package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	accountdb "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/repositories"
	osuservice "github.com/moorad/the-beautiful-bot/app/modules/osu/application"
	osuhandlers "github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/handlers"
	"github.com/moorad/the-beautiful-bot/internal/results"
)

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "run one command locally and print the reply as JSON",
		ArgsUsage: "COMMAND [ARGS...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "author", Usage: "discord id of the invoker, used to read linked settings"},
			&cli.BoolFlag{Name: "offline", Usage: "do not read linked settings from Postgres"},
		},
		Action: query,
	}
}

// unlinked stands in for the settings store when running offline.
type unlinked struct{}

func (unlinked) GetSettings(context.Context, string) (accountservice.SettingsResult, error) {
	return results.FailureResult[*accountservice.Settings, error](accountservice.ErrNotLinked), nil
}

func (unlinked) LinkAccount(context.Context, accountservice.LinkRequest) (accountservice.SettingsResult, error) {
	return accountservice.SettingsResult{}, errors.New("linking needs a database; run without --offline")
}

func query(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("a command is required")
	}

	rt, err := setup(c, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	var accounts osuservice.Accounts = unlinked{}
	if !c.Bool("offline") {
		db := rt.openDB()
		accounts = accountservice.NewAccountService(accountdb.NewRepository(db), nil, rt.obs.Logger, rt.obs.Metrics, rt.obs.Tracer, db)
	}

	service := osuservice.NewOsuService(accounts, rt.registry, rt.obs.Logger, rt.obs.Metrics, rt.obs.Tracer)
	handlers := osuhandlers.NewOsuHandlers(service, rt.cfg.Bot.Prefix, rt.cfg.Bot.Charts, rt.obs.Logger, rt.obs.Tracer, rt.obs.Metrics)

	out, err := handlers.HandleCommand(c.Context, &chatevents.CommandReceivedPayloadV1{
		InvocationID: uuid.NewString(),
		ChannelID:    "cli",
		AuthorID:     c.String("author"),
		Content:      strings.Join(c.Args().Slice(), " "),
		Prefix:       rt.cfg.Bot.Prefix,
	})
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return fmt.Errorf("unknown command %q", c.Args().First())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, r := range out {
		if err := enc.Encode(r.Payload); err != nil {
			return err
		}
	}
	return nil
}
