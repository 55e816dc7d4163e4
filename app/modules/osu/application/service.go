package osuservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/arguments"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
	"github.com/moorad/the-beautiful-bot/internal/results"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "OsuService"

	bestShown   = 5
	bestLimit   = 100
	recentLimit = 50

	// pingProbe is the account every backend is asked for by ping.
	pingProbe = "Moorad"
)

var mentionPattern = regexp.MustCompile(`^<@!?(\d{17,20})>$`)

// OsuService implements the Service interface.
type OsuService struct {
	accounts Accounts
	registry *backends.Registry
	logger   *slog.Logger
	metrics  Metrics
	tracer   trace.Tracer
}

// NewOsuService creates a new OsuService.
func NewOsuService(accounts Accounts, registry *backends.Registry, logger *slog.Logger, metrics Metrics, tracer trace.Tracer) *OsuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OsuService{
		accounts: accounts,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

func (s *OsuService) ResolveUser(ctx context.Context, authorID string, tokens []string) (Resolution, error) {
	parsed := arguments.Parse(tokens)
	res := Resolution{Options: parsed.Options}
	if parsed.Options.Error {
		res.Failure = usage(parsed.Message)
		return res, nil
	}

	selector := authorID
	switch {
	case len(parsed.Positional) > 0 && mentionPattern.MatchString(parsed.Positional[0]):
		selector = mentionPattern.FindStringSubmatch(parsed.Positional[0])[1]
	case len(parsed.Positional) > 0:
		res.Username = strings.Join(parsed.Positional, "_")
		selector = ""
	}

	if selector != "" {
		result, err := s.accounts.GetSettings(ctx, selector)
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to read linked settings: %w", err)
		}
		if !result.IsSuccess() {
			res.Failure = coded(CodeNotLinked)
			return res, nil
		}
		settings := *result.Success
		if !arguments.ExpressesMode(strings.Join(tokens, " ")) {
			res.Options.Mode = settings.Mode
		}
		res.Options.Type = settings.Type
		res.Username = settings.OsuUsername
	}

	backend, err := s.registry.For(res.Options.Type)
	if err != nil {
		return Resolution{}, err
	}
	res.Backend = backend
	return res, nil
}

// Best returns the first five top plays that pass the mods filter, with
// beatmap detail. One failed beatmap lookup fails the whole command.
func (s *OsuService) Best(ctx context.Context, authorID string, tokens []string) (BestResult, error) {
	return withTelemetry(s, ctx, "Best", authorID, func(ctx context.Context) (BestResult, error) {
		res, err := s.ResolveUser(ctx, authorID, tokens)
		if err != nil {
			return BestResult{}, err
		}
		if res.Aborted() {
			return results.FailureResult[*BestPlays, error](res.Failure), nil
		}

		opts := res.Options
		plays, err := res.Backend.Best(ctx, res.Username, backends.Query{Mode: opts.Mode, Relax: opts.Relax, Limit: bestLimit})
		if err != nil {
			return BestResult{}, fmt.Errorf("failed to fetch best plays: %w", err)
		}
		if !plays.Found {
			return results.FailureResult[*BestPlays, error](notFound(res)), nil
		}

		pp := make([]float64, 0, len(plays.Scores))
		top := make([]scores.Score, 0, bestShown)
		for _, p := range plays.Scores {
			pp = append(pp, p.PP)
			if len(top) < bestShown && opts.Mods.Matches(p.EnabledMods) {
				top = append(top, p)
			}
		}
		top = scores.WithAccuracy(opts.Mode, top)

		beatmaps, err := s.registry.Beatmaps().ForScores(ctx, opts.Mode, top)
		if err != nil {
			return BestResult{}, fmt.Errorf("failed to fetch beatmaps: %w", err)
		}

		return results.SuccessResult[*BestPlays, error](&BestPlays{
			Username: res.Username,
			UserID:   plays.UserID,
			Options:  opts,
			Backend:  res.Backend,
			Plays:    top,
			Beatmaps: beatmaps,
			PP:       pp,
		}), nil
	})
}

// Recent returns the Nth most recent play, skipping failed plays when asked.
func (s *OsuService) Recent(ctx context.Context, authorID string, tokens []string) (RecentResult, error) {
	return withTelemetry(s, ctx, "Recent", authorID, func(ctx context.Context) (RecentResult, error) {
		res, err := s.ResolveUser(ctx, authorID, tokens)
		if err != nil {
			return RecentResult{}, err
		}
		if res.Aborted() {
			return results.FailureResult[*RecentPlay, error](res.Failure), nil
		}

		opts := res.Options
		plays, err := res.Backend.Recent(ctx, res.Username, backends.Query{Mode: opts.Mode, Relax: opts.Relax, Limit: recentLimit})
		if err != nil {
			return RecentResult{}, fmt.Errorf("failed to fetch recent plays: %w", err)
		}
		if !plays.Found {
			return results.FailureResult[*RecentPlay, error](notFound(res)), nil
		}

		list := plays.Scores
		if opts.PassesOnly {
			list = make([]scores.Score, 0, len(plays.Scores))
			for _, p := range plays.Scores {
				if p.Passed() {
					list = append(list, p)
				}
			}
		}
		if opts.Previous >= len(list) {
			return results.FailureResult[*RecentPlay, error](usage(fmt.Sprintf(
				":red_circle: **`%s` has no recent plays in osu! %s**", res.Username, opts.Mode,
			))), nil
		}

		play := list[opts.Previous]
		play.Accuracy = scores.Accuracy(opts.Mode, play)

		beatmap, err := s.registry.Beatmaps().Beatmap(ctx, play.BeatmapID, opts.Mode, play.EnabledMods)
		if err != nil {
			return RecentResult{}, fmt.Errorf("failed to fetch beatmap: %w", err)
		}

		return results.SuccessResult[*RecentPlay, error](&RecentPlay{
			Username: res.Username,
			UserID:   plays.UserID,
			Options:  opts,
			Backend:  res.Backend,
			Play:     play,
			Beatmap:  beatmap,
		}), nil
	})
}

// User returns the profile summary. Profiles always come from the official
// servers.
func (s *OsuService) User(ctx context.Context, authorID string, tokens []string) (UserResult, error) {
	return withTelemetry(s, ctx, "User", authorID, func(ctx context.Context) (UserResult, error) {
		res, err := s.ResolveUser(ctx, authorID, tokens)
		if err != nil {
			return UserResult{}, err
		}
		if res.Aborted() {
			return results.FailureResult[*UserCard, error](res.Failure), nil
		}

		official := s.registry.Official()
		user, err := official.User(ctx, res.Username, res.Options.Mode)
		if err != nil {
			return UserResult{}, fmt.Errorf("failed to fetch user: %w", err)
		}
		if user == nil {
			return results.FailureResult[*UserCard, error](coded(CodeUserNotFound)), nil
		}
		return results.SuccessResult[*UserCard, error](&UserCard{
			User:    *user,
			Mode:    res.Options.Mode,
			Backend: official,
		}), nil
	})
}

func (s *OsuService) Link(ctx context.Context, authorID, channelID string, tokens []string) (LinkResult, error) {
	return withTelemetry(s, ctx, "Link", authorID, func(ctx context.Context) (LinkResult, error) {
		parsed := arguments.Parse(tokens)
		if parsed.Options.Error {
			return results.FailureResult[*accountservice.Settings, error](usage(parsed.Message)), nil
		}
		if len(parsed.Positional) == 0 {
			return results.FailureResult[*accountservice.Settings, error](usage(
				":red_circle: **Please provide a username**\nFor example `osuset -t 1 Moorad` links the Gatari account `Moorad`" + arguments.ReportSuffix,
			)), nil
		}

		result, err := s.accounts.LinkAccount(ctx, accountservice.LinkRequest{
			DiscordID:   authorID,
			ChannelID:   channelID,
			OsuUsername: strings.Join(parsed.Positional, "_"),
			Mode:        parsed.Options.Mode,
			Type:        parsed.Options.Type,
		})
		if err != nil {
			return LinkResult{}, fmt.Errorf("failed to link account: %w", err)
		}
		if result.IsFailure() && errors.Is(*result.Failure, accountservice.ErrInvalidLink) {
			return results.FailureResult[*accountservice.Settings, error](usage(":red_circle: **That link is not valid**")), nil
		}
		return result, nil
	})
}

func (s *OsuService) Ping(ctx context.Context) []Latency {
	all := s.registry.All()
	out := make([]Latency, len(all))

	var wg sync.WaitGroup
	for i, backend := range all {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			_, _, err := backend.Lookup(ctx, pingProbe)
			out[i] = Latency{Server: backend.Server(), Elapsed: time.Since(start), Err: err}
		}()
	}
	wg.Wait()
	return out
}

func notFound(res Resolution) *UserError {
	return &UserError{Code: CodeUserNotFound, Message: res.Backend.NotFoundMessage(res.Username)}
}
