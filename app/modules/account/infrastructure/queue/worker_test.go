package accountqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
	"github.com/moorad/the-beautiful-bot/internal/handlerwrapper"
	"github.com/moorad/the-beautiful-bot/internal/results"
)

type fakeAccounts struct {
	trace    []string
	settings accountservice.SettingsResult
	getErr   error
	verified string
}

func (f *fakeAccounts) GetSettings(context.Context, string) (accountservice.SettingsResult, error) {
	f.trace = append(f.trace, "GetSettings")
	return f.settings, f.getErr
}

func (f *fakeAccounts) MarkVerified(_ context.Context, _ string, osuUserID string) (accountservice.SettingsResult, error) {
	f.trace = append(f.trace, "MarkVerified")
	f.verified = osuUserID
	return results.SuccessResult[*accountservice.Settings, error](&accountservice.Settings{Verified: true}), nil
}

type fakeChecker struct {
	userID string
	found  bool
	err    error
	calls  int
}

func (f *fakeChecker) Lookup(context.Context, scores.Server, string) (string, bool, error) {
	f.calls++
	return f.userID, f.found, f.err
}

type fakeNotifier struct {
	channels []string
	texts    []string
}

func (f *fakeNotifier) NotifyUnverified(_ context.Context, channelID, text string) error {
	f.channels = append(f.channels, channelID)
	f.texts = append(f.texts, text)
	return nil
}

func linked(verified bool) accountservice.SettingsResult {
	return results.SuccessResult[*accountservice.Settings, error](&accountservice.Settings{
		DiscordID:   "42",
		OsuUsername: "Moorad",
		Type:        scores.Gatari,
		Verified:    verified,
	})
}

func job(channelID string) *river.Job[VerifyLinkJob] {
	return &river.Job[VerifyLinkJob]{
		JobRow: &rivertype.JobRow{ID: 7, Attempt: 1},
		Args:   VerifyLinkJob{DiscordID: "42", ChannelID: channelID},
	}
}

func TestVerifyLinkWorker_Work(t *testing.T) {
	tests := []struct {
		name         string
		accounts     *fakeAccounts
		checker      *fakeChecker
		channelID    string
		wantErr      bool
		wantCancel   bool
		wantTrace    []string
		wantVerified string
		wantNotified []string
	}{
		{
			name:         "found marks verified",
			accounts:     &fakeAccounts{settings: linked(false)},
			checker:      &fakeChecker{userID: "1001", found: true},
			channelID:    "c1",
			wantTrace:    []string{"GetSettings", "MarkVerified"},
			wantVerified: "1001",
		},
		{
			name:         "missing user warns the channel",
			accounts:     &fakeAccounts{settings: linked(false)},
			checker:      &fakeChecker{},
			channelID:    "c1",
			wantTrace:    []string{"GetSettings"},
			wantNotified: []string{"c1"},
		},
		{
			name:      "missing user without channel is silent",
			accounts:  &fakeAccounts{settings: linked(false)},
			checker:   &fakeChecker{},
			wantTrace: []string{"GetSettings"},
		},
		{
			name:      "transport failure is retried",
			accounts:  &fakeAccounts{settings: linked(false)},
			checker:   &fakeChecker{err: errors.New("dial tcp: i/o timeout")},
			wantErr:   true,
			wantTrace: []string{"GetSettings"},
		},
		{
			name:       "unknown server is cancelled",
			accounts:   &fakeAccounts{settings: linked(false)},
			checker:    &fakeChecker{err: backends.ErrUnknownServer},
			wantErr:    true,
			wantCancel: true,
			wantTrace:  []string{"GetSettings"},
		},
		{
			name:      "already verified",
			accounts:  &fakeAccounts{settings: linked(true)},
			checker:   &fakeChecker{},
			wantTrace: []string{"GetSettings"},
		},
		{
			name:      "unlinked in the meantime",
			accounts:  &fakeAccounts{settings: results.FailureResult[*accountservice.Settings, error](accountservice.ErrNotLinked)},
			checker:   &fakeChecker{},
			wantTrace: []string{"GetSettings"},
		},
		{
			name:      "settings error is retried",
			accounts:  &fakeAccounts{getErr: errors.New("db down")},
			checker:   &fakeChecker{},
			wantErr:   true,
			wantTrace: []string{"GetSettings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			w := NewVerifyLinkWorker(tt.accounts, tt.checker, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))

			err := w.Work(context.Background(), job(tt.channelID))
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantCancel {
					assert.ErrorIs(t, err, backends.ErrUnknownServer)
				}
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantTrace, tt.accounts.trace)
			assert.Equal(t, tt.wantVerified, tt.accounts.verified)
			assert.Equal(t, tt.wantNotified, notifier.channels)
		})
	}
}

func TestVerifyLinkWorker_WarningText(t *testing.T) {
	notifier := &fakeNotifier{}
	w := NewVerifyLinkWorker(&fakeAccounts{settings: linked(false)}, &fakeChecker{}, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, w.Work(context.Background(), job("c1")))
	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "**Moorad**")
	assert.Contains(t, notifier.texts[0], "Gatari")
}

type capturePublisher struct {
	topic    string
	messages []*message.Message
}

func (p *capturePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.topic = topic
	p.messages = append(p.messages, msgs...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func TestPublisherNotifier(t *testing.T) {
	pub := &capturePublisher{}
	ctx := context.WithValue(context.Background(), handlerwrapper.CtxKeyCorrelationID, "corr-1")

	require.NoError(t, PublisherNotifier{Publisher: pub}.NotifyUnverified(ctx, "c9", "hello"))
	require.Len(t, pub.messages, 1)
	assert.Equal(t, chatevents.ResponseSendV1, pub.topic)
	assert.JSONEq(t, `{"channel_id":"c9","content":"hello"}`, string(pub.messages[0].Payload))
	assert.Equal(t, "corr-1", pub.messages[0].Metadata.Get("correlation_id"))
}

func TestVerifyLinkJobKind(t *testing.T) {
	assert.Equal(t, "verify_link", VerifyLinkJob{}.Kind())
}
