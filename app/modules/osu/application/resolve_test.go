package osuservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends/backendstest"
)

func newTestService(t *testing.T, accounts Accounts, routes backendstest.Routes) (*OsuService, *backendstest.Upstream) {
	t.Helper()
	up := backendstest.NewUpstream(t, routes)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOsuService(accounts, up.Registry(), logger, nil, noop.NewTracerProvider().Tracer("test")), up
}

func TestResolveUser(t *testing.T) {
	const author = "111111111111111111"
	const mentioned = "222222222222222222"
	stored := accountservice.Settings{OsuUsername: "Stored", Mode: scores.Mania, Type: scores.Gatari}

	tests := []struct {
		name         string
		tokens       []string
		settings     func(context.Context, string) (accountservice.SettingsResult, error)
		wantUsername string
		wantMode     scores.Mode
		wantServer   scores.Server
		wantCode     int
		wantFailure  bool
		wantErr      bool
		wantTrace    []string
	}{
		{
			name:         "bare username bypasses the store",
			tokens:       []string{"Moorad"},
			wantUsername: "Moorad",
			wantMode:     scores.Standard,
			wantServer:   scores.Official,
			wantTrace:    []string{},
		},
		{
			name:         "spaces in usernames become underscores",
			tokens:       []string{"-t", "2", "cookie", "monster"},
			wantUsername: "cookie_monster",
			wantServer:   scores.Akatsuki,
			wantTrace:    []string{},
		},
		{
			name:         "invoker settings with stored mode",
			tokens:       nil,
			settings:     linkedAs(stored),
			wantUsername: "Stored",
			wantMode:     scores.Mania,
			wantServer:   scores.Gatari,
			wantTrace:    []string{"GetSettings:" + author},
		},
		{
			name:         "mode flag beats stored mode",
			tokens:       []string{"-m", "1"},
			settings:     linkedAs(stored),
			wantUsername: "Stored",
			wantMode:     scores.Taiko,
			wantServer:   scores.Gatari,
			wantTrace:    []string{"GetSettings:" + author},
		},
		{
			name:         "mode word beats stored mode",
			tokens:       []string{"ctb"},
			settings:     linkedAs(stored),
			wantUsername: "Stored",
			wantMode:     scores.Catch,
			wantServer:   scores.Gatari,
			wantTrace:    []string{"GetSettings:" + author},
		},
		{
			name:         "mods flag also counts as a mode flag",
			tokens:       []string{"-mods", "HD"},
			settings:     linkedAs(stored),
			wantUsername: "Stored",
			wantMode:     scores.Standard,
			wantServer:   scores.Gatari,
			wantTrace:    []string{"GetSettings:" + author},
		},
		{
			name:         "mention reads the mentioned user",
			tokens:       []string{"<@" + mentioned + ">"},
			settings:     linkedAs(stored),
			wantUsername: "Stored",
			wantMode:     scores.Mania,
			wantServer:   scores.Gatari,
			wantTrace:    []string{"GetSettings:" + mentioned},
		},
		{
			name:         "nickname mention",
			tokens:       []string{"<@!" + mentioned + ">", "-t", "0"},
			settings:     linkedAs(stored),
			wantUsername: "Stored",
			wantMode:     scores.Mania,
			wantServer:   scores.Gatari,
			wantTrace:    []string{"GetSettings:" + mentioned},
		},
		{
			name:        "mentioned user not linked",
			tokens:      []string{"<@" + mentioned + ">"},
			wantFailure: true,
			wantCode:    CodeNotLinked,
			wantTrace:   []string{"GetSettings:" + mentioned},
		},
		{
			name:        "invoker not linked",
			wantFailure: true,
			wantCode:    CodeNotLinked,
			wantTrace:   []string{"GetSettings:" + author},
		},
		{
			name:        "grammar error stops before the store",
			tokens:      []string{"-zz", "-m", "3"},
			wantFailure: true,
			wantTrace:   []string{},
		},
		{
			name:   "store error",
			tokens: nil,
			settings: func(context.Context, string) (accountservice.SettingsResult, error) {
				return accountservice.SettingsResult{}, errors.New("connection reset")
			},
			wantErr:   true,
			wantTrace: []string{"GetSettings:" + author},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := NewFakeAccounts()
			accounts.GetSettingsFunc = tt.settings
			svc, up := newTestService(t, accounts, nil)

			res, err := svc.ResolveUser(context.Background(), author, tt.tokens)
			assert.Equal(t, tt.wantTrace, accounts.Trace())
			assert.Empty(t, up.Calls(), "resolution never calls upstream")

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantFailure {
				require.True(t, res.Aborted())
				assert.Equal(t, tt.wantCode, res.Failure.Code)
				assert.NotEmpty(t, res.Failure.Message)
				return
			}
			require.False(t, res.Aborted())
			assert.Equal(t, tt.wantUsername, res.Username)
			assert.Equal(t, tt.wantMode, res.Options.Mode)
			assert.Equal(t, tt.wantServer, res.Options.Type)
			require.NotNil(t, res.Backend)
			assert.Equal(t, tt.wantServer, res.Backend.Server())
		})
	}
}

func TestResolveUserGrammarMessage(t *testing.T) {
	svc, _ := newTestService(t, NewFakeAccounts(), nil)

	res, err := svc.ResolveUser(context.Background(), "1", []string{"-m", "9"})
	require.NoError(t, err)
	require.True(t, res.Aborted())
	assert.True(t, res.Options.Error)
	assert.Equal(t, scores.Standard, res.Options.Mode)
	assert.Contains(t, res.Failure.Message, "`9` is an invalid value after `-m`")
}
