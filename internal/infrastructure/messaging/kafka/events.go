package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/errors"
)

// TopicLinePlaced is the default topic for accepted order lines.
const TopicLinePlaced = "titleorder.order.line-placed"

// EventTypeLinePlaced identifies LinePlacedEvent payloads.
const EventTypeLinePlaced = "order.line.placed"

const source = "titleorder"

// EventEnvelope wraps every published event.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope marshals payload into a fresh envelope.
func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeSerialization, "empty event payload").WithDetail(e.EventID)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode payload")
	}
	return nil
}

// ToMessage renders the envelope as a message for topic keyed by key.
func (e *EventEnvelope) ToMessage(topic string, key string) (Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return Message{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return Message{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

// DecodeEnvelope parses a consumed record.
func DecodeEnvelope(value []byte) (*EventEnvelope, error) {
	if len(value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// ─── order events ───────────────────────────────────────────────────────────

// Publisher is the subset of Producer used by LinePlacedPublisher.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// LinePlacedPublisher announces accepted order lines.  Events of one
// placement share a partition key so that consumers see them in order.
type LinePlacedPublisher struct {
	producer Publisher
	topic    string
	logger   logging.Logger
}

// NewLinePlacedPublisher publishes to topic, or TopicLinePlaced when empty.
func NewLinePlacedPublisher(p Publisher, topic string, logger logging.Logger) *LinePlacedPublisher {
	if topic == "" {
		topic = TopicLinePlaced
	}
	return &LinePlacedPublisher{producer: p, topic: topic, logger: logger}
}

// PublishLinePlaced implements order.EventPublisher.
func (p *LinePlacedPublisher) PublishLinePlaced(ctx context.Context, e order.LinePlacedEvent) error {
	env, err := NewEventEnvelope(EventTypeLinePlaced, e)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(p.topic, e.PlacementID)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		return err
	}
	p.logger.Info("order line placed event published",
		logging.String("event_id", env.EventID),
		logging.String("order_id", e.OrderID),
		logging.Jurisdiction(e.Jurisdiction))
	return nil
}

// ─── topic administration ───────────────────────────────────────────────────

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates topics at startup.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager dials the first broker.
func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessagingError, "failed to dial kafka").WithDetail(brokers[0])
	}
	return &TopicManager{conn: conn, logger: logger}, nil
}

// TopicExists reports whether name has partitions.
func (m *TopicManager) TopicExists(name string) bool {
	partitions, err := m.conn.ReadPartitions(name)
	return err == nil && len(partitions) > 0
}

// EnsureTopic creates name unless it exists.
func (m *TopicManager) EnsureTopic(name string, partitions, replication int) error {
	if name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if partitions <= 0 || replication <= 0 {
		return errors.New(errors.ErrCodeValidation, "partitions and replication must be > 0")
	}
	if m.TopicExists(name) {
		return nil
	}
	err := m.conn.CreateTopics(kafka.TopicConfig{
		Topic:             name,
		NumPartitions:     partitions,
		ReplicationFactor: replication,
	})
	if err != nil && !m.TopicExists(name) {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to create topic").WithDetail(name)
	}
	m.logger.Info("topic ensured", logging.String("topic", name))
	return nil
}

// Close closes the admin connection.
func (m *TopicManager) Close() error { return m.conn.Close() }
