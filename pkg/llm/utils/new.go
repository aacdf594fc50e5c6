// Package llmutils is the completion provider utility package
package llmutils

import (
	"fmt"
	"os"

	"github.com/supportbuddyx/supportbuddy/pkg/llm"
	"github.com/supportbuddyx/supportbuddy/pkg/llm/anthropic"
	"github.com/supportbuddyx/supportbuddy/pkg/llm/openai"
)

type NewCompleterOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	MaxTokens    int
	APIKeyEnv    string
}

func NewCompleter(o *NewCompleterOpts) (llm.Completer, error) {
	switch o.ProviderType {
	case "openai":
		return openai.NewCompleter(openai.Config{
			BaseURL:   o.TargetURL,
			APIKey:    os.Getenv(o.APIKeyEnv),
			Model:     o.Model,
			MaxTokens: o.MaxTokens,
		})
	case "anthropic":
		return anthropic.NewCompleter(anthropic.Config{
			APIKey:    os.Getenv(o.APIKeyEnv),
			Model:     o.Model,
			MaxTokens: o.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", o.ProviderType)
	}
}
