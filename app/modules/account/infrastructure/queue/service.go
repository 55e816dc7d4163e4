package accountqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// Metrics interface (shared with the account service)
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService defines the job scheduling operations of the account module.
type QueueService interface {
	// EnqueueVerification schedules a verify_link job. Duplicate pending
	// jobs for the same arguments are collapsed.
	EnqueueVerification(ctx context.Context, discordID, channelID string) error
	// HealthCheck verifies the queue database is reachable
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs verify_link jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics Metrics
}

// NewService connects a pgx pool for River and registers the worker.
// River requires pgx, so the pool is separate from the bun connection.
func NewService(ctx context.Context, dsn string, maxWorkers int, worker *VerifyLinkWorker, logger *slog.Logger, metrics Metrics) (*Service, error) {
	ctxLogger := logger.With(slog.String("component", "river_queue"))

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, worker)

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  ctxLogger,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))
	ctxLogger.Info("Account queue service initialized", slog.Int("max_workers", maxWorkers))

	return &Service{
		client:  client,
		pool:    pool,
		logger:  ctxLogger,
		metrics: metrics,
	}, nil
}

// Start starts the River client
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", slog.String("error", err.Error()))
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("Account queue service started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", slog.String("error", err.Error()))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Account queue service stopped")
	return nil
}

func (s *Service) EnqueueVerification(ctx context.Context, discordID, channelID string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_verification", "river")

	res, err := s.client.Insert(ctx, VerifyLinkJob{DiscordID: discordID, ChannelID: channelID}, &river.InsertOpts{
		UniqueOpts: river.UniqueOpts{ByArgs: true},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_verification", "river")
		return fmt.Errorf("failed to enqueue verification: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_verification", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_verification", "river", time.Since(start))
	s.logger.InfoContext(ctx, "Verification job scheduled",
		slog.String("discord_id", discordID),
		slog.Int64("job_id", res.Job.ID),
		slog.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// HealthCheck pings the queue's pool.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
