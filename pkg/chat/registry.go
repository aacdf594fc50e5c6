package chat

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
	"github.com/supportbuddyx/supportbuddy/pkg/llm"
	"github.com/supportbuddyx/supportbuddy/pkg/memory"
	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
)

// Registry maps user identifiers to sessions with create-on-miss semantics.
type Registry struct {
	docs      docstore.Driver
	memories  *memory.Store
	retriever *retrieval.Retriever
	completer llm.Completer
	logger    *zap.Logger

	// userLocks serializes question answering per user so concurrent
	// questions from the same user cannot race on the memory blob.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewRegistry creates a user registry.
func NewRegistry(
	docs docstore.Driver,
	memories *memory.Store,
	retriever *retrieval.Retriever,
	completer llm.Completer,
	logger *zap.Logger,
) *Registry {
	return &Registry{
		docs:      docs,
		memories:  memories,
		retriever: retriever,
		completer: completer,
		logger:    logger,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// Create records the user in the document store and returns a new session.
// Creation is insert-if-absent at the storage layer, so a concurrent or
// repeated create is a no-op rather than a duplicate record.
func (r *Registry) Create(ctx context.Context, userID string) (*Session, error) {
	inserted, err := r.docs.AddUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if inserted {
		r.logger.Info("created new user", zap.String("user_id", userID))
	}

	return r.newSession(userID), nil
}

// Get returns a session for the user, creating the user on miss. The
// session is always freshly constructed; memory is loaded from the store
// on every question, never cached across calls.
func (r *Registry) Get(ctx context.Context, userID string) (*Session, error) {
	exists, err := r.docs.HasUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !exists {
		r.logger.Info("user does not exist, creating",
			zap.String("user_id", userID),
		)
		return r.Create(ctx, userID)
	}

	return r.newSession(userID), nil
}

// Delete removes the user's record and stored memory. Returns false when
// the user did not exist; in that case nothing is mutated and the absence
// is logged as an error.
func (r *Registry) Delete(ctx context.Context, userID string) (bool, error) {
	deleted, err := r.docs.DeleteUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}

	if !deleted {
		r.logger.Error("user does not exist", zap.String("user_id", userID))
		return false, nil
	}

	r.logger.Info("user deleted", zap.String("user_id", userID))
	return true, nil
}

// Ask resolves the user and delegates to the session's AskQuestion.
// Any failure is logged with the user identifier and question and absorbed:
// the caller receives nil rather than an error, and the gateway serves that
// as the absent-result sentinel.
func (r *Registry) Ask(ctx context.Context, userID, question string) *Result {
	unlock := r.lockUser(userID)
	defer unlock()

	session, err := r.Get(ctx, userID)
	if err != nil {
		r.logger.Error("failed to resolve user",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}

	result, err := session.AskQuestion(ctx, question)
	if err != nil {
		r.logger.Error("failed to process question",
			zap.String("user_id", userID),
			zap.String("question", question),
			zap.Error(err),
		)
		return nil
	}

	return result
}

func (r *Registry) newSession(userID string) *Session {
	return &Session{
		userID:    userID,
		memories:  r.memories,
		retriever: r.retriever,
		completer: r.completer,
		logger:    r.logger,
	}
}

// lockUser acquires the per-user mutex, creating it on first use.
func (r *Registry) lockUser(userID string) func() {
	r.mu.Lock()
	lock, ok := r.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.userLocks[userID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
