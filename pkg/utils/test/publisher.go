package testutils

import (
	"context"
	"sync"

	"github.com/supportbuddyx/supportbuddy/pkg/eventstream"
)

// MockPublisher is a test publisher that records every published event
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.ExchangePersistedEvent

	// Err causes PublishExchange to fail when set
	Err error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		events: make([]*eventstream.ExchangePersistedEvent, 0),
	}
}

func (m *MockPublisher) PublishExchange(_ context.Context, event *eventstream.ExchangePersistedEvent) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Events() []*eventstream.ExchangePersistedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.ExchangePersistedEvent(nil), m.events...)
}

func (m *MockPublisher) Close() error {
	return nil
}
