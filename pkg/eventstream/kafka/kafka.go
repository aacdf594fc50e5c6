// Package kafka provides a Kafka-backed eventstream.Publisher.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	segmentio "github.com/segmentio/kafka-go"

	"github.com/supportbuddyx/supportbuddy/pkg/eventstream"
)

// Publisher writes exchange events to a Kafka topic, keyed by user ID so a
// user's exchanges stay ordered within a partition.
type Publisher struct {
	writer *segmentio.Writer
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is a comma-separated broker list (e.g., "localhost:9092").
	Brokers string

	// Topic is the topic exchange events are published to.
	Topic string
}

// NewPublisher creates a Kafka publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Brokers == "" {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	writer := &segmentio.Writer{
		Addr:     segmentio.TCP(strings.Split(cfg.Brokers, ",")...),
		Topic:    cfg.Topic,
		Balancer: &segmentio.Hash{},
	}

	return &Publisher{writer: writer}, nil
}

// PublishExchange writes the event to the topic.
func (p *Publisher) PublishExchange(ctx context.Context, event *eventstream.ExchangePersistedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, segmentio.Message{
		Key:   []byte(event.UserID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
