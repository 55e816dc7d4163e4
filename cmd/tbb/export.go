package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/export"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write a user's top plays to an xlsx workbook",
		ArgsUsage: "USERNAME",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "type", Aliases: []string{"t"}, Usage: "server: 0 official, 1 gatari, 2 akatsuki"},
			&cli.IntFlag{Name: "mode", Aliases: []string{"m"}, Usage: "0 standard, 1 taiko, 2 catch, 3 mania"},
			&cli.BoolFlag{Name: "relax", Aliases: []string{"rx"}, Usage: "relax leaderboard (Akatsuki only)"},
			&cli.IntFlag{Name: "limit", Value: 100, Usage: "number of plays"},
			&cli.BoolFlag{Name: "beatmaps", Usage: "fetch beatmap titles and difficulty for every play"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "top_plays.xlsx", Usage: "output file"},
		},
		Action: exportAction,
	}
}

func exportAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("a username is required")
	}
	username := strings.Join(c.Args().Slice(), "_")

	server := scores.Server(c.Int("type"))
	mode := scores.Mode(c.Int("mode"))
	if !server.Valid() {
		return fmt.Errorf("invalid type %d", c.Int("type"))
	}
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %d", c.Int("mode"))
	}

	rt, err := setup(c, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	backend, err := rt.registry.For(server)
	if err != nil {
		return err
	}
	plays, err := backend.Best(c.Context, username, backends.Query{Mode: mode, Relax: c.Bool("relax"), Limit: c.Int("limit")})
	if err != nil {
		return fmt.Errorf("failed to fetch best plays: %w", err)
	}
	if !plays.Found {
		return errors.New(backend.NotFoundMessage(username))
	}

	listing := export.Listing{
		Username: username,
		Server:   server,
		Mode:     mode,
		Plays:    scores.WithAccuracy(mode, plays.Scores),
	}
	if c.Bool("beatmaps") {
		listing.Beatmaps, err = rt.registry.Beatmaps().ForScores(c.Context, mode, listing.Plays)
		if err != nil {
			return fmt.Errorf("failed to fetch beatmaps: %w", err)
		}
	}

	f, err := os.Create(c.String("out"))
	if err != nil {
		return err
	}
	if err := export.WriteXLSX(f, listing); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	rt.obs.Logger.InfoContext(c.Context, "Exported top plays",
		slog.String("username", username),
		slog.Int("plays", len(listing.Plays)),
		slog.String("file", c.String("out")),
	)
	return nil
}
