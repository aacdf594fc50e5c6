// Package nop provides a Publisher that discards every event. Used when no
// event stream backend is configured.
package nop

import (
	"context"

	"github.com/supportbuddyx/supportbuddy/pkg/eventstream"
)

// Publisher discards all events.
type Publisher struct{}

// NewPublisher creates a no-op publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishExchange discards the event.
func (p *Publisher) PublishExchange(_ context.Context, _ *eventstream.ExchangePersistedEvent) error {
	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
