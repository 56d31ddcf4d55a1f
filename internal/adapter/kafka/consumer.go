package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/mcardoso/trading-platform/internal/domain"
)

// Consumer subscribes to the domain-events topic and logs the order
// events it recognizes. Unknown event types are skipped; delivery is
// at-least-once, so handlers must tolerate duplicates.
type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a new Kafka consumer in the given consumer group
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.FirstOffset,
	})

	return &Consumer{reader: reader}
}

// Run consumes messages until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log.Printf("kafka consumer started, subscribed to %s", c.reader.Config().Topic)

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		c.processMessage(msg)
	}
}

func (c *Consumer) processMessage(msg kafka.Message) {
	eventType := headerValue(msg, "event-type")
	if eventType == "" {
		log.Printf("received message without event-type header, skipping")
		return
	}

	event, err := decodeEvent(eventType, msg.Value)
	if err != nil {
		log.Printf("failed to decode %s event: %v", eventType, err)
		return
	}
	if event == nil {
		// Not an order event; other consumers own it.
		return
	}

	log.Printf("received event %s: %+v", eventType, event)
}

func decodeEvent(eventType string, payload []byte) (any, error) {
	switch eventType {
	case domain.OrderPlacedEvent{}.EventType():
		var event domain.OrderPlacedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return event, nil
	case domain.OrderCancelledEvent{}.EventType():
		var event domain.OrderCancelledEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return event, nil
	case domain.OrderExecutedEvent{}.EventType():
		var event domain.OrderExecutedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return event, nil
	default:
		return nil, nil
	}
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
