package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/bginsber/docketcalc/internal/config"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// Handler processes one decoded event envelope.  Returning an error records
// the failure but does not stop the consumer; the offset is committed either
// way so one bad event cannot wedge the group.
type Handler func(ctx context.Context, env EventEnvelope) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads event envelopes from a topic as part of a consumer group.
type Consumer struct {
	reader ReaderInterface
	logger logging.Logger
}

// NewConsumer builds a Consumer over a real kafka.Reader.
func NewConsumer(cfg config.KafkaConfig, log logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	return NewConsumerWithReader(reader, log)
}

// NewConsumerWithReader wires an explicit reader.  Used by tests.
func NewConsumerWithReader(r ReaderInterface, log logging.Logger) *Consumer {
	return &Consumer{reader: r, logger: log.Named("kafka_consumer")}
}

// Run fetches messages until ctx is cancelled, invoking handler for each
// decodable envelope.  Undecodable messages are logged and skipped.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to fetch message")
		}

		var env EventEnvelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			c.logger.Warn("skipping undecodable event envelope",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
		} else if err := handler(ctx, env); err != nil {
			c.logger.Error("event handler failed",
				logging.String("event_type", env.EventType),
				logging.String("event_id", env.EventID),
				logging.Err(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to commit offset")
		}
	}
}

// Close shuts the reader down.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
