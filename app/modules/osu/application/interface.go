package osuservice

import (
	"context"
	"time"

	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/arguments"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
	"github.com/moorad/the-beautiful-bot/internal/results"
)

// Accounts is the part of the account module the commands use.
type Accounts interface {
	GetSettings(ctx context.Context, discordID string) (accountservice.SettingsResult, error)
	LinkAccount(ctx context.Context, req accountservice.LinkRequest) (accountservice.SettingsResult, error)
}

// Metrics records service operation outcomes.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// Resolution is the target of one invocation: who to query and where.
type Resolution struct {
	Options  arguments.Options
	Username string
	Backend  backends.Backend
	// Failure is set when the invocation stops before any backend call.
	Failure *UserError
}

// Aborted reports whether the invocation must stop here.
func (r Resolution) Aborted() bool {
	return r.Failure != nil
}

// BestPlays is the outcome of the best command.
type BestPlays struct {
	Username string
	UserID   string
	Options  arguments.Options
	Backend  backends.Backend
	// Plays are the filtered top plays with accuracy filled in.
	Plays []scores.Score
	// Beatmaps is index-aligned with Plays.
	Beatmaps []scores.Beatmap
	// PP holds the pp of every top play returned upstream, best first.
	PP []float64
}

// RecentPlay is the outcome of the recent command.
type RecentPlay struct {
	Username string
	UserID   string
	Options  arguments.Options
	Backend  backends.Backend
	Play     scores.Score
	Beatmap  scores.Beatmap
}

// UserCard is the outcome of the osu command.
type UserCard struct {
	User    scores.User
	Mode    scores.Mode
	Backend backends.Backend
}

// Latency is the round trip of one backend's user endpoint.
type Latency struct {
	Server  scores.Server
	Elapsed time.Duration
	Err     error
}

type (
	BestResult   = results.OperationResult[*BestPlays, error]
	RecentResult = results.OperationResult[*RecentPlay, error]
	UserResult   = results.OperationResult[*UserCard, error]
	LinkResult   = results.OperationResult[*accountservice.Settings, error]
)

// Service defines the osu! command operations.
type Service interface {
	// ResolveUser parses tokens and decides the username and backend to
	// query. Users referred to by mention, or by nothing at all, are read
	// from the linked settings.
	ResolveUser(ctx context.Context, authorID string, tokens []string) (Resolution, error)
	Best(ctx context.Context, authorID string, tokens []string) (BestResult, error)
	Recent(ctx context.Context, authorID string, tokens []string) (RecentResult, error)
	User(ctx context.Context, authorID string, tokens []string) (UserResult, error)
	// Link stores the invoker's osu! username, type and mode.
	Link(ctx context.Context, authorID, channelID string, tokens []string) (LinkResult, error)
	// Ping measures every backend. It never fails; errors are reported per backend.
	Ping(ctx context.Context) []Latency
}
