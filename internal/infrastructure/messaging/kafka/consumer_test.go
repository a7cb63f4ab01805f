package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
)

type fakeReader struct {
	queue     []kafkago.Message
	committed []kafkago.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.queue) == 0 {
		// Drained; behave like a blocked fetch that observes cancellation.
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func envelopeMessage(t *testing.T, eventType string) kafkago.Message {
	t.Helper()
	data, err := json.Marshal(EventEnvelope{
		EventID:       "evt-1",
		EventType:     eventType,
		Source:        "test",
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "1.0",
		Payload:       json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	return kafkago.Message{Value: data}
}

func TestConsumer_DeliversDecodedEnvelopes(t *testing.T) {
	r := &fakeReader{queue: []kafkago.Message{
		envelopeMessage(t, TopicDeadlineComputed),
		envelopeMessage(t, TopicPackReloaded),
	}}
	c := NewConsumerWithReader(r, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	var seen []string
	err := c.Run(ctx, func(_ context.Context, env EventEnvelope) error {
		seen = append(seen, env.EventType)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{TopicDeadlineComputed, TopicPackReloaded}, seen)
	assert.Len(t, r.committed, 2)
}

func TestConsumer_SkipsUndecodableAndCommits(t *testing.T) {
	r := &fakeReader{queue: []kafkago.Message{
		{Value: []byte("not json")},
		envelopeMessage(t, TopicDeadlineComputed),
	}}
	c := NewConsumerWithReader(r, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	var handled int
	err := c.Run(ctx, func(_ context.Context, _ EventEnvelope) error {
		handled++
		cancel()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, handled)
	assert.Len(t, r.committed, 2)
}

func TestConsumer_HandlerErrorDoesNotStopLoop(t *testing.T) {
	r := &fakeReader{queue: []kafkago.Message{
		envelopeMessage(t, TopicDeadlineComputed),
		envelopeMessage(t, TopicDeadlineComputed),
	}}
	c := NewConsumerWithReader(r, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := c.Run(ctx, func(_ context.Context, _ EventEnvelope) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return assert.AnError
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, r.committed, 2)
}
