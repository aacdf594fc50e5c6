// Package vectorutils is the vector utility package
package vectorutils

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/supportbuddyx/supportbuddy/pkg/vector"
	"github.com/supportbuddyx/supportbuddy/pkg/vector/chroma"
	"github.com/supportbuddyx/supportbuddy/pkg/vector/inmemory"
	"github.com/supportbuddyx/supportbuddy/pkg/vector/qdrant"
)

type NewDriverOpts struct {
	ProviderType string
	Target       string
	Collection   string
	Dimensions   int
	Logger       *zap.Logger
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "qdrant":
		return qdrant.NewDriver(ctx, qdrant.Config{
			Target:         o.Target,
			CollectionName: o.Collection,
			Dimensions:     o.Dimensions,
		}, o.Logger)
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.Target,
			CollectionName: o.Collection,
		}, o.Logger)
	case "inmemory":
		return inmemory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
