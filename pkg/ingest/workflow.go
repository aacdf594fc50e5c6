package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
)

// Indexer embeds and stores documents. Satisfied by *retrieval.Retriever.
type Indexer interface {
	Index(ctx context.Context, docs []retrieval.Document) error
}

// Workflow ingests URLs and sitemaps exactly once each.
type Workflow struct {
	docs    docstore.Driver
	indexer Indexer
	fetcher Fetcher
	logger  *zap.Logger
}

// NewWorkflow creates an ingestion workflow.
func NewWorkflow(docs docstore.Driver, indexer Indexer, fetcher Fetcher, logger *zap.Logger) *Workflow {
	return &Workflow{
		docs:    docs,
		indexer: indexer,
		fetcher: fetcher,
		logger:  logger,
	}
}

// AddURLs ingests each URL in order. URLs already recorded are skipped
// without fetching. Processing is best-effort: a failing URL is logged,
// its reservation released, and the remaining URLs still run; the
// accumulated failures are returned at the end.
func (w *Workflow) AddURLs(ctx context.Context, urls []string) error {
	var errs []error
	for _, url := range urls {
		if err := w.ingestOne(ctx, docstore.CollectionURLs, url, w.fetcher.FetchURL); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddSitemap ingests a sitemap, expanding it into its constituent pages.
// An already-recorded sitemap is skipped without fetching.
func (w *Workflow) AddSitemap(ctx context.Context, sitemapURL string) error {
	return w.ingestOne(ctx, docstore.CollectionSitemaps, sitemapURL, w.fetcher.FetchSitemap)
}

// ingestOne runs the check-then-ingest sequence for a single source. The
// recording is an atomic insert-if-absent, so two concurrent submissions of
// the same source cannot both fetch. If fetch or indexing fails, the
// reservation is released so the source can be retried later.
func (w *Workflow) ingestOne(
	ctx context.Context,
	collection, key string,
	fetch func(context.Context, string) ([]retrieval.Document, error),
) error {
	inserted, err := w.docs.MarkIngested(ctx, collection, key)
	if err != nil {
		return fmt.Errorf("recording %q: %w", key, err)
	}

	if !inserted {
		w.logger.Info("source already processed",
			zap.String("collection", collection),
			zap.String("source", key),
		)
		return nil
	}

	w.logger.Info("processing source",
		zap.String("collection", collection),
		zap.String("source", key),
	)

	docs, err := fetch(ctx, key)
	if err != nil {
		w.release(ctx, collection, key)
		w.logger.Error("failed to fetch source",
			zap.String("source", key),
			zap.Error(err),
		)
		return fmt.Errorf("fetching %q: %w", key, err)
	}

	if err := w.indexer.Index(ctx, docs); err != nil {
		w.release(ctx, collection, key)
		w.logger.Error("failed to index source",
			zap.String("source", key),
			zap.Error(err),
		)
		return fmt.Errorf("indexing %q: %w", key, err)
	}

	w.logger.Info("source processed",
		zap.String("collection", collection),
		zap.String("source", key),
		zap.Int("documents", len(docs)),
	)
	return nil
}

func (w *Workflow) release(ctx context.Context, collection, key string) {
	if err := w.docs.Unmark(ctx, collection, key); err != nil {
		w.logger.Warn("failed to release source reservation",
			zap.String("source", key),
			zap.Error(err),
		)
	}
}
