// Package docstoreutils is the docstore utility package
package docstoreutils

import (
	"context"
	"fmt"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
	"github.com/supportbuddyx/supportbuddy/pkg/docstore/inmemory"
	"github.com/supportbuddyx/supportbuddy/pkg/docstore/mongo"
	"github.com/supportbuddyx/supportbuddy/pkg/docstore/sqlite"
)

type NewDriverOpts struct {
	ProviderType string
	SQLitePath   string
	MongoURI     string
	MongoDB      string
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (docstore.Driver, error) {
	switch o.ProviderType {
	case "sqlite":
		return sqlite.NewDriver(o.SQLitePath)
	case "mongo":
		return mongo.NewDriver(ctx, mongo.Config{
			URI:      o.MongoURI,
			Database: o.MongoDB,
		})
	case "inmemory":
		return inmemory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported docstore provider: %s", o.ProviderType)
	}
}
