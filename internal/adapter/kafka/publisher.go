package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mcardoso/trading-platform/internal/domain"
)

// Publisher implements domain.EventPublisher on top of a Kafka topic.
// Events are JSON-encoded with event-type and occurred-at headers so
// consumers can dispatch without decoding the payload first.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{writer: writer}
}

// Publish sends a domain event keyed by its aggregate identity, so all
// events for one aggregate land on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return domain.NewError(domain.KindUnavailable, "failed to write %s message to kafka: %v", event.EventType(), err)
	}

	return nil
}

func buildMessage(event domain.Event) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal %s event: %w", event.EventType(), err)
	}

	return kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.EventType())},
			{Key: "occurred-at", Value: []byte(time.Now().UTC().Format(time.RFC3339Nano))},
		},
	}, nil
}

// Close closes the Kafka publisher
func (p *Publisher) Close() error {
	return p.writer.Close()
}
