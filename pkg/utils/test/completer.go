package testutils

import (
	"context"

	"github.com/supportbuddyx/supportbuddy/pkg/llm"
)

// MockCompleter is a test completer that returns a canned answer and echoes
// back the documents it was given
type MockCompleter struct {
	Answer string

	// Requests records every request seen by Complete
	Requests []llm.Request

	// Err causes Complete to fail when set
	Err error
}

func NewMockCompleter(answer string) *MockCompleter {
	return &MockCompleter{
		Answer: answer,
	}
}

func (m *MockCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.Requests = append(m.Requests, req)

	if m.Err != nil {
		return nil, m.Err
	}

	return &llm.Response{
		Answer:          m.Answer,
		SourceDocuments: req.Documents,
	}, nil
}

func (m *MockCompleter) Close() error {
	return nil
}
