package eventbus

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"

	"github.com/Black-And-White-Club/archery-scorer/config"
)

// NewNATS connects a bus to NATS. With JetStream enabled streams are provisioned on
// first use; otherwise core NATS subjects are used.
func NewNATS(cfg config.NATSConfig, logger *slog.Logger) (*Bus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	wmLogger := watermill.NewSlogLogger(logger)

	options, err := connectionOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	jetStream := nats.JetStreamConfig{
		Disabled:      !cfg.JetStream,
		AutoProvision: cfg.JetStream,
	}
	subJetStream := jetStream
	if cfg.JetStream {
		subJetStream.SubscribeOptions = []nc.SubOpt{
			nc.DeliverAll(),
			nc.AckExplicit(),
		}
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:               cfg.URL,
			NatsOptions:       options,
			Marshaler:         &nats.NATSMarshaler{},
			JetStream:         jetStream,
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:               cfg.URL,
			CloseTimeout:      30 * time.Second,
			AckWaitTimeout:    30 * time.Second,
			NatsOptions:       options,
			Unmarshaler:       &nats.NATSMarshaler{},
			JetStream:         subJetStream,
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		wmLogger,
	)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber: %w", err)
	}

	logger.Info("Connected event bus to NATS",
		slog.String("url", cfg.URL),
		slog.Bool("jetstream", cfg.JetStream),
		slog.Bool("nkey_auth", cfg.NKeySeed != ""),
	)
	return New(publisher, subscriber, logger), nil
}

func connectionOptions(cfg config.NATSConfig, logger *slog.Logger) ([]nc.Option, error) {
	options := []nc.Option{
		nc.Name("archery-scorer"),
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
			} else {
				logger.Error("Error in connection", slog.String("error", err.Error()))
			}
		}),
	}

	if cfg.NKeySeed != "" {
		opt, err := nkeyOption(cfg.NKeySeed)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}

// nkeyOption signs the server nonce with the user seed.
func nkeyOption(seed string) (nc.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NATS nkey seed: %w", err)
	}
	publicKey, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive NATS public key: %w", err)
	}
	return nc.Nkey(publicKey, func(nonce []byte) ([]byte, error) {
		return kp.Sign(nonce)
	}), nil
}
