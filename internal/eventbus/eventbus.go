// Package eventbus wraps watermill publishers and subscribers behind one EventBus.
//
// Messages published with an empty topic are routed on their "topic" metadata, which
// is how handler results reach their destination when a router handler is
// registered without a fixed publish topic.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicMetadataKey carries the destination topic of a message.
const TopicMetadataKey = "topic"

// ErrNoTopic is returned when neither the call nor the message names a topic.
var ErrNoTopic = errors.New("message has no destination topic")

// EventBus publishes and subscribes to topics.
type EventBus interface {
	message.Publisher
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Bus is the EventBus implementation over any watermill pub/sub pair.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
	closeOnce  sync.Once
	closeErr   error
}

var _ EventBus = (*Bus)(nil)

// New wraps a publisher and subscriber.
func New(publisher message.Publisher, subscriber message.Subscriber, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{publisher: publisher, subscriber: subscriber, logger: logger}
}

// NewInProcess returns a bus backed by a watermill gochannel, used when no NATS
// server is configured and in tests.
func NewInProcess(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, watermill.NewSlogLogger(logger))
	return New(pubSub, pubSub, logger)
}

// Publish sends messages to topic, or to each message's topic metadata when topic is empty.
func (b *Bus) Publish(topic string, msgs ...*message.Message) error {
	if topic != "" {
		return b.publisher.Publish(topic, msgs...)
	}
	for _, msg := range msgs {
		dest := msg.Metadata.Get(TopicMetadataKey)
		if dest == "" {
			return fmt.Errorf("%w: message %s", ErrNoTopic, msg.UUID)
		}
		if err := b.publisher.Publish(dest, msg); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", dest, err)
		}
	}
	return nil
}

// Subscribe returns the message channel for topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Close closes the publisher and subscriber once.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		pubErr := b.publisher.Close()
		var subErr error
		if any(b.subscriber) != any(b.publisher) {
			subErr = b.subscriber.Close()
		}
		b.closeErr = errors.Join(pubErr, subErr)
		if b.closeErr != nil {
			b.logger.Error("Failed to close event bus", slog.String("error", b.closeErr.Error()))
		}
	})
	return b.closeErr
}
