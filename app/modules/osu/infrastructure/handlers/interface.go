package osuhandlers

import (
	"context"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	"github.com/moorad/the-beautiful-bot/internal/handlerwrapper"
)

// Handlers defines the contract of the osu! command handlers.
type Handlers interface {
	HandleCommand(ctx context.Context, payload *chatevents.CommandReceivedPayloadV1) ([]handlerwrapper.Result, error)
}

// Metrics records the outcome of every dispatched command.
type Metrics interface {
	RecordCommand(ctx context.Context, command, outcome string)
}
