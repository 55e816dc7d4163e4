package account

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	accountqueue "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/queue"
	accountdb "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/repositories"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
	"github.com/moorad/the-beautiful-bot/config"
	"github.com/moorad/the-beautiful-bot/internal/observability"
)

// Module represents the account module.
type Module struct {
	AccountService *accountservice.AccountService
	Queue          *accountqueue.Service
	cancelFunc     context.CancelFunc
	observability  observability.Observability
}

// NewAccountModule wires the linked-settings store and its verification
// queue. The queue publishes warnings through publisher.
func NewAccountModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	registry *backends.Registry,
	publisher message.Publisher,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "account.NewAccountModule initializing")

	repo := accountdb.NewRepository(db)
	service := accountservice.NewAccountService(repo, nil, logger, obs.Metrics, obs.Tracer, db)

	worker := accountqueue.NewVerifyLinkWorker(
		service,
		accountqueue.RegistryChecker{Registry: registry},
		accountqueue.PublisherNotifier{Publisher: publisher},
		logger,
	)
	queue, err := accountqueue.NewService(ctx, cfg.Postgres.DSN, cfg.Queue.MaxWorkers, worker, logger, obs.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create account queue: %w", err)
	}
	service.SetQueue(queue)

	return &Module{
		AccountService: service,
		Queue:          queue,
		observability:  obs,
	}, nil
}

// Run starts the verification queue and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting account module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.Queue.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Account queue failed to start", "error", err)
		return
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Account module goroutine stopped")
}

// Close stops the verification queue.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping account module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.Queue != nil {
		if err := m.Queue.Stop(context.Background()); err != nil {
			logger.Error("Error stopping account queue", "error", err)
			return fmt.Errorf("error stopping account queue: %w", err)
		}
	}

	logger.Info("Account module stopped")
	return nil
}
