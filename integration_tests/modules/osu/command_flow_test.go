package osu_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	accountdb "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/repositories"
	"github.com/moorad/the-beautiful-bot/app/modules/osu"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends/backendstest"
	"github.com/moorad/the-beautiful-bot/config"
	"github.com/moorad/the-beautiful-bot/internal/eventbus"
	"github.com/moorad/the-beautiful-bot/internal/handlerwrapper"
	"github.com/moorad/the-beautiful-bot/internal/observability"
)

const peppy = `[{"user_id":"2","username":"peppy","country":"AU","level":"101.5",
	"pp_rank":"1","pp_country_rank":"1","pp_raw":"200.5","accuracy":"98.1","playcount":"42",
	"ranked_score":"12345678901","total_seconds_played":"3600","count_rank_ssh":"1",
	"count_rank_ss":"2","count_rank_sh":"3","count_rank_s":"4","count_rank_a":"5"}]`

type harness struct {
	bus     *eventbus.EventBus
	replies <-chan *message.Message
}

// startBot runs the osu module on a fresh router over the NATS container.
func startBot(t *testing.T, upstream *backendstest.Upstream) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	obs := observability.New(logger)

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		URL:              testEnv.NatsURL,
		QueueGroup:       "tbb-test",
		SubscribersCount: 1,
		AckWaitTimeout:   5 * time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Bot.Prefix = "$"
	cfg.Bot.Charts = false

	accounts := accountservice.NewAccountService(accountdb.NewRepository(testEnv.DB), nil, logger, obs.Metrics, obs.Tracer, testEnv.DB)
	module, err := osu.NewOsuModule(ctx, cfg, obs, accounts, upstream.Registry(), router, bus, bus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = module.Close() })

	replies, err := bus.Subscribe(ctx, chatevents.ResponseSendV1)
	require.NoError(t, err)

	go func() { _ = router.Run(ctx) }()
	select {
	case <-router.Running():
	case <-time.After(10 * time.Second):
		t.Fatal("router did not start")
	}
	t.Cleanup(func() { _ = router.Close() })

	return &harness{bus: bus, replies: replies}
}

func (h *harness) send(t *testing.T, authorID, content string) chatevents.ResponsePayloadV1 {
	t.Helper()
	msg, err := handlerwrapper.NewMessage(context.Background(), chatevents.CommandReceivedPayloadV1{
		InvocationID: watermill.NewUUID(),
		ChannelID:    "chan-1",
		AuthorID:     authorID,
		Content:      content,
	})
	require.NoError(t, err)
	require.NoError(t, h.bus.Publish(chatevents.CommandReceivedV1, msg))

	select {
	case reply := <-h.replies:
		reply.Ack()
		var payload chatevents.ResponsePayloadV1
		require.NoError(t, json.Unmarshal(reply.Payload, &payload))
		return payload
	case <-time.After(15 * time.Second):
		t.Fatalf("no reply to %q", content)
		return chatevents.ResponsePayloadV1{}
	}
}

func TestLinkThenProfileOverNATS(t *testing.T) {
	require.NoError(t, testEnv.Reset(context.Background()))
	upstream := backendstest.NewUpstream(t, backendstest.Routes{
		"/api/get_user": backendstest.JSON(http.StatusOK, peppy),
	})
	h := startBot(t, upstream)

	linked := h.send(t, "300", "osuset peppy")
	assert.Equal(t, "chan-1", linked.ChannelID)
	assert.Equal(t, ":white_check_mark: Linked **peppy** on Official servers with osu! Standard as the default mode", linked.Content)

	profile := h.send(t, "300", "osu")
	require.NotNil(t, profile.Embed)
	require.NotNil(t, profile.Embed.Author)
	assert.Equal(t, "osu! Standard profile of peppy", profile.Embed.Author.Name)
	assert.Equal(t, "#1", profile.Embed.Fields[0].Value)
}

func TestUnlinkedUserIsToldToLink(t *testing.T) {
	require.NoError(t, testEnv.Reset(context.Background()))
	h := startBot(t, backendstest.NewUpstream(t, backendstest.Routes{}))

	reply := h.send(t, "400", "best")
	assert.Nil(t, reply.Embed)
	assert.NotEmpty(t, reply.Content)
	assert.Contains(t, reply.Content, "osuset")
}
