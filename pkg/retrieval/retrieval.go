// Package retrieval composes an embeddings.Embedder with a vector.Driver
// into the retrieval provider used for question answering: Index embeds and
// stores documents, Retrieve embeds a query and returns the most relevant
// documents from the full ingested corpus.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/supportbuddyx/supportbuddy/pkg/embeddings"
	"github.com/supportbuddyx/supportbuddy/pkg/vector"
)

// DefaultTopK is the number of documents retrieved per query when the
// configured value is not positive.
const DefaultTopK = 4

// Document is a unit of retrievable content.
type Document struct {
	// ID uniquely identifies the document in the vector store.
	ID string `json:"id"`

	// Source is the origin of the content, typically a page URL.
	Source string `json:"source"`

	// Text is the document content.
	Text string `json:"text"`
}

// Retriever indexes and retrieves documents over the shared corpus.
type Retriever struct {
	embedder embeddings.Embedder
	driver   vector.Driver
	topK     int
	logger   *zap.Logger
}

// New creates a Retriever.
func New(embedder embeddings.Embedder, driver vector.Driver, topK int, logger *zap.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}

	return &Retriever{
		embedder: embedder,
		driver:   driver,
		topK:     topK,
		logger:   logger,
	}
}

// Index embeds each document and stores it in the vector store.
func (r *Retriever) Index(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		if doc.Text == "" {
			r.logger.Debug("skipping document with no text content",
				zap.String("id", doc.ID),
			)
			continue
		}

		embedding, err := r.embedder.Embed(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("embedding document %q: %w", doc.ID, err)
		}

		err = r.driver.Add(ctx, []vector.Document{{
			ID:        doc.ID,
			Source:    doc.Source,
			Text:      doc.Text,
			Embedding: embedding,
		}})
		if err != nil {
			return fmt.Errorf("storing document %q: %w", doc.ID, err)
		}

		r.logger.Debug("indexed document",
			zap.String("id", doc.ID),
			zap.String("source", doc.Source),
			zap.Int("embedding_dim", len(embedding)),
		)
	}
	return nil
}

// Retrieve embeds the query and returns the topK most similar documents.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Document, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.driver.Query(ctx, embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	docs := make([]Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, Document{
			ID:     result.ID,
			Source: result.Source,
			Text:   result.Text,
		})
	}

	r.logger.Debug("retrieved documents",
		zap.String("query", query),
		zap.Int("count", len(docs)),
	)

	return docs, nil
}
