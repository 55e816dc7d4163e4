package accountservice

import (
	"context"
	"time"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/internal/results"
)

// Settings is the stored link of one chat user.
type Settings struct {
	DiscordID   string
	OsuUsername string
	Mode        scores.Mode
	Type        scores.Server
	OsuUserID   string
	Verified    bool
}

// LinkRequest asks to link or relink the invoker's osu! account. ChannelID is
// where verification problems are reported.
type LinkRequest struct {
	DiscordID   string
	ChannelID   string
	OsuUsername string
	Mode        scores.Mode
	Type        scores.Server
}

// SettingsResult is a type alias to reduce generic verbosity.
type SettingsResult = results.OperationResult[*Settings, error]

// Service defines the linked-settings operations.
type Service interface {
	// GetSettings fails with ErrNotLinked when the user never linked.
	GetSettings(ctx context.Context, discordID string) (SettingsResult, error)
	// LinkAccount stores the link and schedules its verification.
	LinkAccount(ctx context.Context, req LinkRequest) (SettingsResult, error)
	// MarkVerified records the upstream user id of a confirmed link.
	MarkVerified(ctx context.Context, discordID, osuUserID string) (SettingsResult, error)
}

// VerificationQueue schedules the asynchronous check of a new link.
type VerificationQueue interface {
	EnqueueVerification(ctx context.Context, discordID, channelID string) error
}

// Metrics records service operation outcomes.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}
