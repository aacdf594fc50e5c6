// Package anthropic implements pkg/llm's Completer using the official
// Anthropic SDK.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/supportbuddyx/supportbuddy/pkg/llm"
)

const (
	// DefaultModel is the default chat model.
	DefaultModel = "claude-3-5-haiku-latest"

	// DefaultMaxTokens caps the answer length.
	DefaultMaxTokens = 1024
)

// Completer wraps the Anthropic Messages API.
type Completer struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// Config holds configuration for the Anthropic completer.
type Config struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// Model is the chat model to use. Defaults to DefaultModel.
	Model string

	// MaxTokens caps the answer length. Defaults to DefaultMaxTokens.
	MaxTokens int
}

// NewCompleter creates a Completer backed by the Anthropic Messages API.
func NewCompleter(cfg Config) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Completer{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Complete answers the question grounded on the supplied documents.
func (c *Completer) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)
	for _, msg := range req.History {
		switch msg.Role {
		case llm.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Question)))

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: llm.SystemPrompt(req.Documents)},
		},
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	var answer strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			answer.WriteString(block.Text)
		}
	}

	return &llm.Response{
		Answer:          answer.String(),
		SourceDocuments: req.Documents,
	}, nil
}

// Close releases resources held by the completer.
func (c *Completer) Close() error {
	return nil
}
