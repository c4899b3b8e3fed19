package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/errors"
)

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded envelope.
type Handler func(ctx context.Context, env *EventEnvelope) error

// Consumer reads order events, for the CLI's event tail.
type Consumer struct {
	reader ReaderInterface
	logger logging.Logger
	// backoff is slept after a fetch error.
	backoff time.Duration
}

// NewConsumer reads cfg.Topic in consumer group group.
func NewConsumer(cfg config.KafkaConfig, group string, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if group == "" {
		return nil, errors.New(errors.ErrCodeValidation, "consumer group required")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = TopicLinePlaced
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     group,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		MaxWait:     time.Second,
		StartOffset: kafka.FirstOffset,
	})
	return NewConsumerWithReader(r, logger), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(r ReaderInterface, logger logging.Logger) *Consumer {
	return &Consumer{reader: r, logger: logger, backoff: time.Second}
}

// Run fetches until ctx is done.  A message that cannot be decoded or whose
// handler fails is logged and committed so that one bad record does not
// stall the tail.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("kafka fetch failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
			continue
		}

		env, err := DecodeEnvelope(m.Value)
		if err == nil {
			err = h(ctx, env)
		}
		if err != nil {
			c.logger.Warn("kafka message skipped",
				logging.String("topic", m.Topic),
				logging.Int64("offset", m.Offset),
				logging.Err(err))
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("kafka commit failed", logging.Err(err))
		}
	}
}

// Close closes the reader.
func (c *Consumer) Close() error { return c.reader.Close() }
