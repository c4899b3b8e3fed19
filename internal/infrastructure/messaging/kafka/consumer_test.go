package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/testutil"
)

type mockKafkaReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.queue) > 0 {
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		m.committed = append(m.committed, msg.Offset)
	}
	return nil
}

func (m *mockKafkaReader) Close() error { return nil }

func (m *mockKafkaReader) commits() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.committed...)
}

func TestConsumer_RunDeliversAndSkips(t *testing.T) {
	env, err := NewEventEnvelope(EventTypeLinePlaced, placedEvent())
	require.NoError(t, err)
	good, err := env.ToMessage(TopicLinePlaced, "PL-1")
	require.NoError(t, err)

	r := &mockKafkaReader{queue: []kafka.Message{
		{Topic: TopicLinePlaced, Offset: 1, Value: good.Value},
		{Topic: TopicLinePlaced, Offset: 2, Value: []byte("garbage")},
	}}
	log := testutil.NewMockLogger()
	c := NewConsumerWithReader(r, log)

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var seen []string
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, func(_ context.Context, e *EventEnvelope) error {
			mu.Lock()
			seen = append(seen, e.EventType)
			mu.Unlock()
			return nil
		})
	}()

	assert.Eventually(t, func() bool { return len(r.commits()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, []string{EventTypeLinePlaced}, seen)
	mu.Unlock()
	assert.Equal(t, []int64{1, 2}, r.commits())
	assert.True(t, log.HasMessage("warn", "kafka message skipped"))
}

func TestNewConsumer_Validation(t *testing.T) {
	_, err := NewConsumer(config.KafkaConfig{}, "g", testutil.NewMockLogger())
	assert.Error(t, err)
	_, err = NewConsumer(config.KafkaConfig{Brokers: []string{"b:9092"}}, "", testutil.NewMockLogger())
	assert.Error(t, err)
}
