package accountservice

import (
	"context"
	"time"

	accountdb "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Account Repo
// ------------------------

// FakeAccountRepository provides a programmable stub for accountdb.Repository.
type FakeAccountRepository struct {
	trace []string

	GetByDiscordIDFunc func(ctx context.Context, db bun.IDB, discordID string) (*accountdb.LinkedAccount, error)
	UpsertFunc         func(ctx context.Context, db bun.IDB, account *accountdb.LinkedAccount) error
	MarkVerifiedFunc   func(ctx context.Context, db bun.IDB, discordID, osuUserID string) error
}

func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeAccountRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAccountRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAccountRepository) GetByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*accountdb.LinkedAccount, error) {
	f.record("GetByDiscordID")
	if f.GetByDiscordIDFunc != nil {
		return f.GetByDiscordIDFunc(ctx, db, discordID)
	}
	return nil, accountdb.ErrNotFound
}

func (f *FakeAccountRepository) Upsert(ctx context.Context, db bun.IDB, account *accountdb.LinkedAccount) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, account)
	}
	return nil
}

func (f *FakeAccountRepository) MarkVerified(ctx context.Context, db bun.IDB, discordID, osuUserID string) error {
	f.record("MarkVerified")
	if f.MarkVerifiedFunc != nil {
		return f.MarkVerifiedFunc(ctx, db, discordID, osuUserID)
	}
	return nil
}

// ------------------------
// Fake Verification Queue
// ------------------------

type FakeQueue struct {
	Enqueued []string

	EnqueueVerificationFunc func(ctx context.Context, discordID, channelID string) error
}

func (f *FakeQueue) EnqueueVerification(ctx context.Context, discordID, channelID string) error {
	f.Enqueued = append(f.Enqueued, discordID+"@"+channelID)
	if f.EnqueueVerificationFunc != nil {
		return f.EnqueueVerificationFunc(ctx, discordID, channelID)
	}
	return nil
}

// ------------------------
// Fake Metrics
// ------------------------

type FakeMetrics struct {
	trace []string
}

func (f *FakeMetrics) RecordOperationAttempt(_ context.Context, op, _ string) {
	f.trace = append(f.trace, op+":attempt")
}

func (f *FakeMetrics) RecordOperationSuccess(_ context.Context, op, _ string) {
	f.trace = append(f.trace, op+":success")
}

func (f *FakeMetrics) RecordOperationFailure(_ context.Context, op, _ string) {
	f.trace = append(f.trace, op+":failure")
}

func (f *FakeMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
