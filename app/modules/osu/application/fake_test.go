package osuservice

import (
	"context"

	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	"github.com/moorad/the-beautiful-bot/internal/results"
)

// FakeAccounts provides a programmable stub for the Accounts interface.
type FakeAccounts struct {
	trace []string

	GetSettingsFunc func(ctx context.Context, discordID string) (accountservice.SettingsResult, error)
	LinkAccountFunc func(ctx context.Context, req accountservice.LinkRequest) (accountservice.SettingsResult, error)
}

func NewFakeAccounts() *FakeAccounts {
	return &FakeAccounts{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeAccounts) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAccounts) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAccounts) GetSettings(ctx context.Context, discordID string) (accountservice.SettingsResult, error) {
	f.record("GetSettings:" + discordID)
	if f.GetSettingsFunc != nil {
		return f.GetSettingsFunc(ctx, discordID)
	}
	return results.FailureResult[*accountservice.Settings, error](accountservice.ErrNotLinked), nil
}

func (f *FakeAccounts) LinkAccount(ctx context.Context, req accountservice.LinkRequest) (accountservice.SettingsResult, error) {
	f.record("LinkAccount")
	if f.LinkAccountFunc != nil {
		return f.LinkAccountFunc(ctx, req)
	}
	return results.SuccessResult[*accountservice.Settings, error](&accountservice.Settings{
		DiscordID:   req.DiscordID,
		OsuUsername: req.OsuUsername,
		Mode:        req.Mode,
		Type:        req.Type,
	}), nil
}

// linkedAs returns settings stubs that answer every id with the same link.
func linkedAs(settings accountservice.Settings) func(context.Context, string) (accountservice.SettingsResult, error) {
	return func(_ context.Context, id string) (accountservice.SettingsResult, error) {
		s := settings
		s.DiscordID = id
		return results.SuccessResult[*accountservice.Settings, error](&s), nil
	}
}
