package osuhandlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/arguments"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/render"
)

type command struct {
	entry render.HelpEntry
	run   func(ctx context.Context, in invocation) (response, error)
}

func (h *OsuHandlers) registry() []*command {
	username := arguments.OtherDetails("Username")
	return []*command{
		{
			entry: render.HelpEntry{
				Name:        "best",
				Aliases:     []string{"top", "bt"},
				Description: "Displays the top 5 plays of a user",
				Page:        1,
				Options:     arguments.Details("mode", "type", "relax", "mods"),
				Arguments:   username,
			},
			run: h.best,
		},
		{
			entry: render.HelpEntry{
				Name:        "recent",
				Aliases:     []string{"rs"},
				Description: "Displays the most recent play of a user",
				Page:        1,
				Options:     arguments.Details("previous", "mode", "type", "relax", "passesonly"),
				Arguments:   username,
			},
			run: h.recent,
		},
		{
			entry: render.HelpEntry{
				Name:        "osu",
				Description: "Displays the osu! profile of a user",
				Page:        1,
				Options:     arguments.Details("mode"),
				Arguments:   username,
			},
			run: h.user,
		},
		{
			entry: render.HelpEntry{
				Name:        "osuset",
				Aliases:     []string{"os"},
				Description: "Links an osu! account to your discord account so commands default to it",
				Page:        1,
				Options:     arguments.Details("type", "mode"),
				Arguments:   username,
			},
			run: h.link,
		},
		{
			entry: render.HelpEntry{
				Name:        "help",
				Aliases:     []string{"hl"},
				Description: "Displays the list of commands or the detail of one command",
				Page:        2,
				Arguments:   arguments.OtherDetails("Command"),
			},
			run: h.help,
		},
		{
			entry: render.HelpEntry{
				Name:        "changelog",
				Aliases:     []string{"cl"},
				Description: "Shows where to find the latest changes",
				Page:        2,
			},
			run: h.changelog,
		},
		{
			entry: render.HelpEntry{
				Name:        "ping",
				Description: "Measures the latency of every osu! server",
				Page:        2,
			},
			run: h.ping,
		},
	}
}

func (h *OsuHandlers) best(ctx context.Context, in invocation) (response, error) {
	res, err := h.service.Best(ctx, in.payload.AuthorID, in.args)
	if err != nil {
		return response{}, err
	}
	if res.IsFailure() {
		return reject(*res.Failure), nil
	}

	best := *res.Success
	out := embed(render.Best(best, h.now()))
	if !h.charts || len(best.PP) < 2 {
		return out, nil
	}

	png, err := render.PPChart(best.PP)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to render pp chart",
			slog.String("invocation_id", in.payload.InvocationID),
			slog.String("error", err.Error()),
		)
		return out, nil
	}
	out.Embed.Image = &chatevents.EmbedImage{URL: "attachment://" + render.ChartName}
	out.Attachments = []chatevents.Attachment{{Name: render.ChartName, ContentType: "image/png", Data: png}}
	return out, nil
}

func (h *OsuHandlers) recent(ctx context.Context, in invocation) (response, error) {
	res, err := h.service.Recent(ctx, in.payload.AuthorID, in.args)
	if err != nil {
		return response{}, err
	}
	if res.IsFailure() {
		return reject(*res.Failure), nil
	}
	return embed(render.Recent(*res.Success, h.now())), nil
}

func (h *OsuHandlers) user(ctx context.Context, in invocation) (response, error) {
	res, err := h.service.User(ctx, in.payload.AuthorID, in.args)
	if err != nil {
		return response{}, err
	}
	if res.IsFailure() {
		return reject(*res.Failure), nil
	}
	return embed(render.User(*res.Success, h.now())), nil
}

func (h *OsuHandlers) link(ctx context.Context, in invocation) (response, error) {
	res, err := h.service.Link(ctx, in.payload.AuthorID, in.payload.ChannelID, in.args)
	if err != nil {
		return response{}, err
	}
	if res.IsFailure() {
		return reject(*res.Failure), nil
	}
	return text(render.Linked(*res.Success)), nil
}

// help shows a page when given a number and a single command when given a
// name.
func (h *OsuHandlers) help(_ context.Context, in invocation) (response, error) {
	prefix := h.prefixFor(in.payload)
	entries := make([]render.HelpEntry, len(h.commands))
	for i, c := range h.commands {
		entries[i] = c.entry
	}

	if len(in.args) == 0 {
		return embed(render.Help(prefix, 1, entries)), nil
	}

	arg := strings.ToLower(in.args[0])
	if page, err := strconv.Atoi(arg); err == nil {
		return embed(render.Help(prefix, page, entries)), nil
	}
	if c, ok := h.byName[strings.TrimPrefix(arg, prefix)]; ok {
		return embed(render.HelpCommand(prefix, c.entry)), nil
	}
	return reject(fmt.Errorf(":red_circle: `%s` is not a command%s", in.args[0], arguments.ReportSuffix)), nil
}

func (h *OsuHandlers) changelog(context.Context, invocation) (response, error) {
	return embed(render.Changelog()), nil
}

func (h *OsuHandlers) ping(ctx context.Context, _ invocation) (response, error) {
	return text(render.Ping(h.service.Ping(ctx))), nil
}
