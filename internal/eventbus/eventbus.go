// Package eventbus connects the service to NATS through watermill.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// Config selects the NATS server and subscriber fan-out.
type Config struct {
	URL              string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
}

// EventBus is a watermill publisher and subscriber over core NATS. Command
// subjects are consumed through a queue group so replicas share the load.
// conn is kept only for readiness checks.
type EventBus struct {
	logger     *slog.Logger
	publisher  *nats.Publisher
	subscriber *nats.Subscriber
	conn       *nc.Conn
}

var (
	_ message.Publisher  = (*EventBus)(nil)
	_ message.Subscriber = (*EventBus)(nil)
)

// NewEventBus dials NATS and builds the watermill publisher and subscriber.
func NewEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (*EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription",
					slog.String("subject", s.Subject),
					slog.String("queue", s.Queue),
					slog.String("error", err.Error()),
				)
				return
			}
			logger.Error("Error in connection", slog.String("error", err.Error()))
		}),
	}

	conn, err := nc.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	marshaler := &nats.NATSMarshaler{}
	jetStream := nats.JetStreamConfig{Disabled: true}

	publisher, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: options,
		Marshaler:   marshaler,
		JetStream:   jetStream,
	}, wmLogger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	subscribers := cfg.SubscribersCount
	if subscribers <= 0 {
		subscribers = 1
	}
	ackWait := cfg.AckWaitTimeout
	if ackWait <= 0 {
		ackWait = 30 * time.Second
	}

	subscriber, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:              cfg.URL,
		NatsOptions:      options,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: subscribers,
		AckWaitTimeout:   ackWait,
		Unmarshaler:      marshaler,
		JetStream:        jetStream,
	}, wmLogger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected to NATS", slog.String("url", cfg.URL), slog.String("queue_group", cfg.QueueGroup))

	return &EventBus{
		logger:     logger,
		publisher:  publisher,
		subscriber: subscriber,
		conn:       conn,
	}, nil
}

// Publish publishes messages to topic.
func (b *EventBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

// Subscribe subscribes to topic.
func (b *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Ready reports whether the NATS connection is up.
func (b *EventBus) Ready() bool {
	return b.conn != nil && b.conn.IsConnected()
}

// Close shuts down the subscriber, the publisher and the connection.
func (b *EventBus) Close() error {
	var firstErr error
	if err := b.subscriber.Close(); err != nil {
		firstErr = fmt.Errorf("closing subscriber: %w", err)
	}
	if err := b.publisher.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing publisher: %w", err)
	}
	b.conn.Close()
	return firstErr
}
