// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"
	"os"

	"github.com/supportbuddyx/supportbuddy/pkg/embeddings"
	"github.com/supportbuddyx/supportbuddy/pkg/embeddings/ollama"
	"github.com/supportbuddyx/supportbuddy/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKeyEnv    string
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewEmbedder(openai.Config{
			BaseURL: o.TargetURL,
			APIKey:  os.Getenv(o.APIKeyEnv),
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
