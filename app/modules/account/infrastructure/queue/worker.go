package accountqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
	"github.com/moorad/the-beautiful-bot/internal/handlerwrapper"
)

// Accounts is the part of the account service the worker needs.
type Accounts interface {
	GetSettings(ctx context.Context, discordID string) (accountservice.SettingsResult, error)
	MarkVerified(ctx context.Context, discordID, osuUserID string) (accountservice.SettingsResult, error)
}

// Checker resolves a username on one server.
type Checker interface {
	Lookup(ctx context.Context, server scores.Server, username string) (userID string, found bool, err error)
}

// RegistryChecker resolves usernames through the backend registry.
type RegistryChecker struct {
	Registry *backends.Registry
}

func (c RegistryChecker) Lookup(ctx context.Context, server scores.Server, username string) (string, bool, error) {
	backend, err := c.Registry.For(server)
	if err != nil {
		return "", false, err
	}
	return backend.Lookup(ctx, username)
}

// Notifier tells a channel that its link could not be verified.
type Notifier interface {
	NotifyUnverified(ctx context.Context, channelID, text string) error
}

// PublisherNotifier publishes the warning as a chat response.
type PublisherNotifier struct {
	Publisher message.Publisher
}

func (n PublisherNotifier) NotifyUnverified(ctx context.Context, channelID, text string) error {
	msg, err := handlerwrapper.NewMessage(ctx, chatevents.ResponsePayloadV1{
		ChannelID: channelID,
		Content:   text,
	})
	if err != nil {
		return err
	}
	return n.Publisher.Publish(chatevents.ResponseSendV1, msg)
}

// VerifyLinkWorker confirms stored links against the upstream servers.
type VerifyLinkWorker struct {
	river.WorkerDefaults[VerifyLinkJob]
	accounts Accounts
	checker  Checker
	notifier Notifier
	logger   *slog.Logger
}

func NewVerifyLinkWorker(accounts Accounts, checker Checker, notifier Notifier, logger *slog.Logger) *VerifyLinkWorker {
	return &VerifyLinkWorker{
		accounts: accounts,
		checker:  checker,
		notifier: notifier,
		logger:   logger,
	}
}

// Work returns an error only for failures worth retrying.
func (w *VerifyLinkWorker) Work(ctx context.Context, job *river.Job[VerifyLinkJob]) error {
	args := job.Args
	logger := w.logger.With(
		slog.String("discord_id", args.DiscordID),
		slog.String("job_id", fmt.Sprint(job.ID)),
		slog.Int("attempt", job.Attempt),
	)

	result, err := w.accounts.GetSettings(ctx, args.DiscordID)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if result.IsFailure() {
		if errors.Is(*result.Failure, accountservice.ErrNotLinked) {
			logger.InfoContext(ctx, "Link removed before verification")
			return nil
		}
		return river.JobCancel(*result.Failure)
	}

	settings := *result.Success
	if settings.Verified {
		logger.InfoContext(ctx, "Link already verified")
		return nil
	}

	userID, found, err := w.checker.Lookup(ctx, settings.Type, settings.OsuUsername)
	if err != nil {
		if errors.Is(err, backends.ErrUnknownServer) {
			return river.JobCancel(err)
		}
		logger.WarnContext(ctx, "Upstream lookup failed, will retry", slog.String("error", err.Error()))
		return fmt.Errorf("failed to look up %q: %w", settings.OsuUsername, err)
	}

	if !found {
		logger.InfoContext(ctx, "Linked user does not exist upstream",
			slog.String("osu_username", settings.OsuUsername),
			slog.String("server", settings.Type.String()),
		)
		if args.ChannelID == "" || w.notifier == nil {
			return nil
		}
		text := fmt.Sprintf(":warning: I could not find **%s** on %s servers. Check the spelling and run osuset again.",
			settings.OsuUsername, settings.Type.String())
		if err := w.notifier.NotifyUnverified(ctx, args.ChannelID, text); err != nil {
			return fmt.Errorf("failed to notify channel: %w", err)
		}
		return nil
	}

	if _, err := w.accounts.MarkVerified(ctx, args.DiscordID, userID); err != nil {
		return fmt.Errorf("failed to mark verified: %w", err)
	}
	logger.InfoContext(ctx, "Link verified", slog.String("osu_user_id", userID))
	return nil
}
