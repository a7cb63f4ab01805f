package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bginsber/docketcalc/internal/config"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/pkg/errors"
	"github.com/bginsber/docketcalc/pkg/types/common"
)

// envelopeSchemaVersion tags every published envelope.
const envelopeSchemaVersion = "1.0"

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes event envelopes to a single topic.
type Producer struct {
	writer WriterInterface
	source string
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer builds a Producer over a real kafka.Writer.
func NewProducer(cfg config.KafkaConfig, source string, log logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
	}
	return NewProducerWithWriter(writer, source, log)
}

// NewProducerWithWriter wires an explicit writer.  Used by tests.
func NewProducerWithWriter(w WriterInterface, source string, log logging.Logger) *Producer {
	return &Producer{writer: w, source: source, logger: log.Named("kafka_producer")}
}

// Publish wraps payload in an EventEnvelope and writes it keyed by key, so
// events for one jurisdiction stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, eventType, key string, payload any) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeMessagingError, "producer is closed")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}

	envelope := EventEnvelope{
		EventID:       string(common.NewID()),
		EventType:     eventType,
		Source:        p.source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: envelopeSchemaVersion,
		Payload:       raw,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to publish event").
			WithDetail("event_type=" + eventType)
	}

	p.logger.Debug("event published",
		logging.String("event_type", eventType),
		logging.String("event_id", envelope.EventID),
		logging.String("key", key),
	)
	return nil
}

// Close flushes and shuts the writer down.  Safe to call more than once.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to close producer")
	}
	return nil
}
