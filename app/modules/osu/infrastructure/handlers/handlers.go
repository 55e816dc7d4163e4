package osuhandlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	osuservice "github.com/moorad/the-beautiful-bot/app/modules/osu/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/render"
	"github.com/moorad/the-beautiful-bot/internal/handlerwrapper"
)

// Command outcomes as recorded in metrics.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// OsuHandlers dispatches chat commands to the osu! service and renders the
// replies.
type OsuHandlers struct {
	service osuservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics Metrics
	prefix  string
	charts  bool
	now     func() time.Time

	commands []*command
	byName   map[string]*command
}

// NewOsuHandlers builds the handlers. prefix is used in help output when the
// gateway does not send one; charts enables the pp chart on best.
func NewOsuHandlers(
	service osuservice.Service,
	prefix string,
	charts bool,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics Metrics,
) *OsuHandlers {
	h := &OsuHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
		prefix:  prefix,
		charts:  charts,
		now:     time.Now,
	}
	h.commands = h.registry()
	h.byName = make(map[string]*command, len(h.commands)*3)
	for _, c := range h.commands {
		h.byName[c.entry.Name] = c
		for _, alias := range c.entry.Aliases {
			h.byName[alias] = c
		}
	}
	return h
}

// invocation is one parsed command event.
type invocation struct {
	payload *chatevents.CommandReceivedPayloadV1
	args    []string
}

// response is a reply before it is addressed to a channel.
type response struct {
	chatevents.ResponsePayloadV1
	rejected bool
}

func text(content string) response {
	return response{ResponsePayloadV1: chatevents.ResponsePayloadV1{Content: content}}
}

func embed(e *chatevents.Embed) response {
	return response{ResponsePayloadV1: chatevents.ResponsePayloadV1{Embed: e}}
}

// reject shows a domain failure to the invoker as is.
func reject(failure error) response {
	r := text(failure.Error())
	r.rejected = true
	return r
}

// HandleCommand routes one command by its first token. Unknown commands are
// ignored. Infrastructure errors are logged and answered with the generic
// apology, so the message is never redelivered.
func (h *OsuHandlers) HandleCommand(ctx context.Context, payload *chatevents.CommandReceivedPayloadV1) ([]handlerwrapper.Result, error) {
	tokens := strings.Fields(payload.Content)
	if len(tokens) == 0 {
		return nil, nil
	}

	cmd, ok := h.byName[strings.ToLower(tokens[0])]
	if !ok {
		h.logger.DebugContext(ctx, "Ignoring unknown command",
			slog.String("command", tokens[0]),
			slog.String("invocation_id", payload.InvocationID),
		)
		return nil, nil
	}
	name := cmd.entry.Name

	ctx, span := h.tracer.Start(ctx, "osu.command."+name, trace.WithAttributes(
		attribute.String("invocation_id", payload.InvocationID),
		attribute.String("author_id", payload.AuthorID),
	))
	defer span.End()

	h.logger.InfoContext(ctx, "Handling command",
		slog.String("command", name),
		slog.String("invocation_id", payload.InvocationID),
		slog.String("author_id", payload.AuthorID),
		slog.String("channel_id", payload.ChannelID),
	)

	out, err := cmd.run(ctx, invocation{payload: payload, args: tokens[1:]})
	outcome := OutcomeOK
	switch {
	case err != nil:
		h.logger.ErrorContext(ctx, "Command failed",
			slog.String("command", name),
			slog.String("invocation_id", payload.InvocationID),
			slog.String("error", err.Error()),
		)
		span.RecordError(err)
		out = text(render.UnexpectedError(payload.InvocationID))
		outcome = OutcomeError
	case out.rejected:
		outcome = OutcomeRejected
	}
	if h.metrics != nil {
		h.metrics.RecordCommand(ctx, name, outcome)
	}

	reply := out.ResponsePayloadV1
	reply.InvocationID = payload.InvocationID
	reply.ChannelID = payload.ChannelID
	return []handlerwrapper.Result{{Payload: reply}}, nil
}

func (h *OsuHandlers) prefixFor(payload *chatevents.CommandReceivedPayloadV1) string {
	if payload.Prefix != "" {
		return payload.Prefix
	}
	return h.prefix
}
