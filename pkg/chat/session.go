// Package chat implements the user registry and the per-user question
// answering session. A session composes the retrieval provider and the
// completion provider around the user's persisted conversation memory.
package chat

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/supportbuddyx/supportbuddy/pkg/llm"
	"github.com/supportbuddyx/supportbuddy/pkg/memory"
	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
)

// Result is the outcome of a successfully answered question.
type Result struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`

	// Sources is the de-duplicated, sorted set of source identifiers the
	// answer was grounded on.
	Sources []string `json:"sources"`
}

// Session couples a user with their conversation memory for one question.
// Sessions are constructed fresh on every lookup and hold no state across
// calls; continuity lives entirely in the memory store.
type Session struct {
	userID string

	memories  *memory.Store
	retriever *retrieval.Retriever
	completer llm.Completer
	logger    *zap.Logger
}

// UserID returns the immutable identifier of the session's user.
func (s *Session) UserID() string {
	return s.userID
}

// AskQuestion answers one question for this user: retrieve context over the
// full ingested corpus, load the user's memory, complete, persist the
// updated memory, and extract the answer with its de-duplicated sources.
func (s *Session) AskQuestion(ctx context.Context, question string) (*Result, error) {
	docs, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	history, err := s.memories.Load(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("loading memory: %w", err)
	}

	resp, err := s.completer.Complete(ctx, llm.Request{
		Question:  question,
		History:   history.Messages(),
		Documents: docs,
	})
	if err != nil {
		return nil, fmt.Errorf("completing: %w", err)
	}

	history.Append(llm.RoleUser, question)
	history.Append(llm.RoleAssistant, resp.Answer)

	if err := s.memories.Save(ctx, s.userID, history); err != nil {
		return nil, fmt.Errorf("saving memory: %w", err)
	}

	s.logger.Info("generated response",
		zap.String("user_id", s.userID),
		zap.Int("retrieved_docs", len(docs)),
	)

	return &Result{
		Answer:  resp.Answer,
		Sources: uniqueSources(resp.SourceDocuments),
	}, nil
}

// uniqueSources extracts the set of non-empty source identifiers, sorted
// for deterministic output.
func uniqueSources(docs []retrieval.Document) []string {
	seen := make(map[string]struct{}, len(docs))
	sources := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Source == "" {
			continue
		}
		if _, ok := seen[doc.Source]; ok {
			continue
		}
		seen[doc.Source] = struct{}{}
		sources = append(sources, doc.Source)
	}

	sort.Strings(sources)
	return sources
}
