package kafka

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/testutil"
	"github.com/turtacn/titleorder/pkg/errors"
)

type mockKafkaWriter struct {
	mu        sync.Mutex
	written   []kafka.Message
	writeErr  error
	closeErr  error
	closeCall int
}

func (m *mockKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCall++
	return m.closeErr
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(config.KafkaConfig{}, testutil.NewMockLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestNewProducer_Defaults(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}, RequiredAcks: -1}, testutil.NewMockLogger())
	require.NoError(t, err)
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.NotZero(t, w.BatchTimeout)
}

func TestProducer_Publish(t *testing.T) {
	w := &mockKafkaWriter{}
	p := NewProducerWithWriter(w, testutil.NewMockLogger())

	err := p.Publish(context.Background(), Message{
		Topic:   "t",
		Key:     []byte("k"),
		Value:   []byte(`{}`),
		Headers: map[string]string{"event_type": "x"},
	})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "t", w.written[0].Topic)
	assert.Equal(t, "k", string(w.written[0].Key))
	assert.Equal(t, "x", header(w.written[0], "event_type"))
	assert.False(t, w.written[0].Time.IsZero())
	assert.EqualValues(t, 1, p.Sent())
}

func TestProducer_PublishRejectsInvalid(t *testing.T) {
	p := NewProducerWithWriter(&mockKafkaWriter{}, testutil.NewMockLogger())
	tests := []struct {
		name string
		msg  Message
	}{
		{"no topic", Message{Value: []byte("v")}},
		{"no value", Message{Topic: "t"}},
		{"too large", Message{Topic: "t", Value: []byte(strings.Repeat("x", maxMessageBytes+1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Publish(context.Background(), tt.msg)
			assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
		})
	}
}

func TestProducer_PublishWriteFailure(t *testing.T) {
	w := &mockKafkaWriter{writeErr: stderrors.New("broker down")}
	p := NewProducerWithWriter(w, testutil.NewMockLogger())

	err := p.Publish(context.Background(), Message{Topic: "t", Value: []byte("v")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessagingError))
	assert.EqualValues(t, 1, p.Failed())
}

func TestProducer_Close(t *testing.T) {
	w := &mockKafkaWriter{}
	log := testutil.NewMockLogger()
	p := NewProducerWithWriter(w, log)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closeCall)
	assert.True(t, log.HasMessage("info", "kafka producer closed"))

	err := p.Publish(context.Background(), Message{Topic: "t", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrProducerClosed)
}
