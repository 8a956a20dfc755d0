package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/messaging"
)

// redeliveryDelay is the delay before a failed event is delivered again
const redeliveryDelay = 30 * time.Second

type subscriber struct {
	nc       adapter.NatsConn
	js       adapter.JetStream
	consumer adapter.Consumer
	json     adapter.JSON
	cfg      Config
}

// NewSubscriber connects to NATS and creates the durable minted-event consumer
func NewSubscriber(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Subscriber, error) {
	nc, js, err := natsJS.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	if err := ensureStream(ctx, js, cfg); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, cfg.StreamName, jetstream.ConsumerConfig{
		Durable:       cfg.ConsumerName,
		FilterSubject: cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       cfg.AckWait,
		MaxDeliver:    cfg.MaxDeliver,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create consumer %s: %w", cfg.ConsumerName, err)
	}

	return &subscriber{
		nc:       nc,
		js:       js,
		consumer: consumer,
		json:     jsonAdapter,
		cfg:      cfg,
	}, nil
}

// Subscribe consumes events until ctx is cancelled
func (s *subscriber) Subscribe(ctx context.Context, handler messaging.MintedHandler) error {
	cc, err := s.consumer.Consume(func(msg adapter.Message) {
		s.handleMessage(ctx, msg, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.InfoCtx(ctx, "Consuming minted events",
		zap.String("stream", s.cfg.StreamName),
		zap.String("consumer", s.cfg.ConsumerName))

	select {
	case <-ctx.Done():
		cc.Drain()
		<-cc.Closed()
		return ctx.Err()
	case <-cc.Closed():
		return errors.New("consumer closed unexpectedly")
	}
}

func (s *subscriber) handleMessage(ctx context.Context, msg adapter.Message, handler messaging.MintedHandler) {
	var event domain.MintedEvent
	if err := s.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to decode minted event"), zap.String("subject", msg.Subject()))
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to TERM message"))
		}
		return
	}

	eventCtx := logger.WithFields(ctx,
		zap.String("event_id", event.EventID),
		zap.String("tx_hash", event.Record.TxHash))

	if err := handler(eventCtx, &event); err != nil {
		if errors.Is(err, messaging.ErrPoisonMessage) {
			logger.ErrorCtx(eventCtx, err, zap.String("message", "Dropping unprocessable event"))
			if err := msg.Term(); err != nil {
				logger.ErrorCtx(eventCtx, err, zap.String("message", "Failed to TERM message"))
			}
			return
		}

		logger.WarnCtx(eventCtx, "Failed to handle minted event, requesting redelivery", zap.Error(err))
		if err := msg.NakWithDelay(redeliveryDelay); err != nil {
			logger.ErrorCtx(eventCtx, err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(eventCtx, err, zap.String("message", "Failed to ACK message"))
	}
}

// Close closes the NATS connection
func (s *subscriber) Close() {
	if s.nc == nil {
		return
	}

	s.nc.Close()
}
