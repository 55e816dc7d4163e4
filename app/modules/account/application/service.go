package accountservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	accountdb "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/repositories"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/internal/handlerwrapper"
	"github.com/moorad/the-beautiful-bot/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "AccountService"

// AccountService implements the Service interface.
type AccountService struct {
	repo    accountdb.Repository
	queue   VerificationQueue
	logger  *slog.Logger
	metrics Metrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewAccountService creates a new AccountService. queue may be nil, in which
// case links are stored unverified.
func NewAccountService(
	repo accountdb.Repository,
	queue VerificationQueue,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		repo:    repo,
		queue:   queue,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// SetQueue attaches the verification queue once it exists. The queue's
// worker depends on this service, so the two are wired in two steps.
func (s *AccountService) SetQueue(queue VerificationQueue) {
	s.queue = queue
}

// GetSettings returns the stored link of discordID.
func (s *AccountService) GetSettings(ctx context.Context, discordID string) (SettingsResult, error) {
	return withTelemetry(s, ctx, "GetSettings", discordID, func(ctx context.Context) (SettingsResult, error) {
		account, err := s.repo.GetByDiscordID(ctx, nil, discordID)
		if err != nil {
			if errors.Is(err, accountdb.ErrNotFound) {
				return results.FailureResult[*Settings, error](ErrNotLinked), nil
			}
			return SettingsResult{}, fmt.Errorf("failed to get settings: %w", err)
		}
		return results.SuccessResult[*Settings, error](toSettings(account)), nil
	})
}

// LinkAccount stores the link in a transaction, then schedules verification.
// A failed enqueue is logged and does not undo the link.
func (s *AccountService) LinkAccount(ctx context.Context, req LinkRequest) (SettingsResult, error) {
	return withTelemetry(s, ctx, "LinkAccount", req.DiscordID, func(ctx context.Context) (SettingsResult, error) {
		req.OsuUsername = strings.TrimSpace(req.OsuUsername)
		if req.DiscordID == "" || req.OsuUsername == "" || !req.Mode.Valid() || !req.Type.Valid() {
			return results.FailureResult[*Settings, error](ErrInvalidLink), nil
		}

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SettingsResult, error) {
			account := &accountdb.LinkedAccount{
				DiscordID:   req.DiscordID,
				OsuUsername: req.OsuUsername,
				Mode:        int(req.Mode),
				Type:        int(req.Type),
			}
			if err := s.repo.Upsert(ctx, db, account); err != nil {
				return SettingsResult{}, fmt.Errorf("failed to store link: %w", err)
			}
			stored, err := s.repo.GetByDiscordID(ctx, db, req.DiscordID)
			if err != nil {
				return SettingsResult{}, fmt.Errorf("failed to reload link: %w", err)
			}
			return results.SuccessResult[*Settings, error](toSettings(stored)), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}

		if s.queue != nil && !(*result.Success).Verified {
			if err := s.queue.EnqueueVerification(ctx, req.DiscordID, req.ChannelID); err != nil {
				s.logger.WarnContext(ctx, "Failed to schedule link verification",
					slog.String("correlation_id", handlerwrapper.CorrelationID(ctx)),
					slog.String("discord_id", req.DiscordID),
					slog.String("error", err.Error()),
				)
			}
		}
		return result, nil
	})
}

// MarkVerified records that discordID's link exists upstream as osuUserID.
func (s *AccountService) MarkVerified(ctx context.Context, discordID, osuUserID string) (SettingsResult, error) {
	return withTelemetry(s, ctx, "MarkVerified", discordID, func(ctx context.Context) (SettingsResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SettingsResult, error) {
			if err := s.repo.MarkVerified(ctx, db, discordID, osuUserID); err != nil {
				if errors.Is(err, accountdb.ErrNotFound) {
					return results.FailureResult[*Settings, error](ErrNotLinked), nil
				}
				return SettingsResult{}, fmt.Errorf("failed to mark verified: %w", err)
			}
			account, err := s.repo.GetByDiscordID(ctx, db, discordID)
			if err != nil {
				return SettingsResult{}, fmt.Errorf("failed to reload link: %w", err)
			}
			return results.SuccessResult[*Settings, error](toSettings(account)), nil
		})
	})
}

func toSettings(a *accountdb.LinkedAccount) *Settings {
	settings := &Settings{
		DiscordID:   a.DiscordID,
		OsuUsername: a.OsuUsername,
		Mode:        scores.Mode(a.Mode),
		Type:        scores.Server(a.Type),
		Verified:    a.VerifiedAt != nil,
	}
	if a.OsuUserID != nil {
		settings.OsuUserID = *a.OsuUserID
	}
	return settings
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *AccountService,
	ctx context.Context,
	operationName string,
	discordID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("discord_id", discordID),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	correlationID := slog.String("correlation_id", handlerwrapper.CorrelationID(ctx))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				correlationID,
				slog.String("discord_id", discordID),
				slog.String("error", err.Error()),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			correlationID,
			slog.String("operation", operationName),
			slog.String("discord_id", discordID),
			slog.String("error", wrappedErr.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			correlationID,
			slog.String("operation", operationName),
			slog.String("discord_id", discordID),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *AccountService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}
