package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	maxDeliver = 5
	// nakDelay spaces out redeliveries of messages whose handler hit a transient failure
	nakDelay = 2 * time.Second
)

// Consumer reads upload notifications from a durable JetStream pull consumer
type Consumer struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	iter   jetstream.MessagesContext
	wg     sync.WaitGroup
}

// NewNATSConsumer creates a new consumer
func NewNATSConsumer(cfg config.NATSConfig, logger *slog.Logger) (*Consumer, error) {
	conn, js, err := connect(cfg.URL, cfg.ConsumerName, logger)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

// EnsureStream creates the stream the storage notifications land on when it is missing
func (n *Consumer) EnsureStream(ctx context.Context) error {
	_, err := n.js.Stream(ctx, n.config.StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", n.config.StreamName, err)
	}
	_, err = n.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     n.config.StreamName,
		Subjects: []string{n.config.Subject},
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", n.config.StreamName, err)
	}
	n.logger.Info("NATS stream created", "stream", n.config.StreamName, "subject", n.config.Subject)
	return nil
}

// Subscribe subscribes to stream and handles messages until ctx is done or Close is called.
// Handler errors wrapping domain.ErrValidation are terminated; any other error is redelivered.
func (n *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	consumerCfg := jetstream.ConsumerConfig{
		Durable:       n.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: n.config.Subject,
		AckWait:       30 * time.Second,
		MaxDeliver:    maxDeliver,
	}

	cons, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, consumerCfg)
	if err != nil {
		return fmt.Errorf("failed to create consumer %s on %s: %w", n.config.ConsumerName, n.config.StreamName, err)
	}

	iter, err := cons.Messages()
	if err != nil {
		return err
	}
	n.iter = iter

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.logger.Info("NATS subscription started", "stream", n.config.StreamName, "subject", n.config.Subject)
		for {
			msg, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, jetstream.ErrMsgIteratorClosed) {
					n.logger.Info("NATS subscription stopped")
					return
				}
				n.logger.Error("failed to receive message", "error", err)
				return
			}
			n.handle(ctx, handler, msg)
		}
	}()

	go func() {
		<-ctx.Done()
		iter.Stop()
	}()
	return nil
}

func (n *Consumer) handle(ctx context.Context, handler port.MessageService, msg jetstream.Msg) {
	handleErr := handler.HandleMessage(ctx, msg.Data())
	if handleErr == nil {
		if err := msg.Ack(); err != nil {
			n.logger.Error("failed to ack message", "error", err)
		}
		return
	}

	if errors.Is(handleErr, domain.ErrValidation) {
		n.logger.Warn("dropping malformed message", "error", handleErr, "subject", msg.Subject())
		if err := msg.Term(); err != nil {
			n.logger.Error("failed to term message", "error", err)
		}
		return
	}

	delivered := uint64(0)
	if meta, err := msg.Metadata(); err == nil {
		delivered = meta.NumDelivered
	}
	n.logger.Warn("failed to handle message", "error", handleErr, "delivered", delivered)
	if err := msg.NakWithDelay(nakDelay); err != nil {
		n.logger.Error("failed to nak message", "error", err)
	}
}

// Close graceful shutdown
func (n *Consumer) Close() error {
	if n.iter != nil {
		n.iter.Stop()
	}

	n.wg.Wait()

	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
