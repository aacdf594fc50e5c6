// Package memory provides the per-user conversation memory layer.
//
// A user's memory is their conversation history, serialized as an opaque
// JSON blob in the document store and reloaded around every question so the
// completion provider sees prior turns. The blob survives process restarts;
// nothing else about an exchange is persisted.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
	"github.com/supportbuddyx/supportbuddy/pkg/llm"
)

// Turn is a single message in a user's conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History is a user's conversation memory, oldest turn first.
type History struct {
	Turns []Turn `json:"turns"`
}

// Append adds a turn to the history.
func (h *History) Append(role, content string) {
	h.Turns = append(h.Turns, Turn{Role: role, Content: content})
}

// Messages converts the history into completion provider messages.
func (h *History) Messages() []llm.Message {
	msgs := make([]llm.Message, len(h.Turns))
	for i, turn := range h.Turns {
		msgs[i] = llm.Message{Role: turn.Role, Content: turn.Content}
	}
	return msgs
}

// Store persists conversation histories keyed by user ID.
type Store struct {
	docs docstore.Driver
}

// NewStore creates a memory store over the given document store.
func NewStore(docs docstore.Driver) *Store {
	return &Store{docs: docs}
}

// Load returns the user's history. A user with no saved memory gets an
// empty history, not an error.
func (s *Store) Load(ctx context.Context, userID string) (*History, error) {
	blob, err := s.docs.LoadMemory(ctx, userID)
	if errors.Is(err, docstore.ErrNoMemory) {
		return &History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading memory: %w", err)
	}

	var history History
	if err := json.Unmarshal(blob, &history); err != nil {
		return nil, fmt.Errorf("unmarshaling memory: %w", err)
	}
	return &history, nil
}

// Save persists the user's history.
func (s *Store) Save(ctx context.Context, userID string, history *History) error {
	blob, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling memory: %w", err)
	}

	if err := s.docs.SaveMemory(ctx, userID, blob); err != nil {
		return fmt.Errorf("saving memory: %w", err)
	}
	return nil
}

// Delete removes the user's history without touching the user record.
// Removing a user goes through docstore.DeleteUser instead, which drops the
// record and the blob in one transaction. Deleting absent memory is not an
// error.
func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.docs.DeleteMemory(ctx, userID)
}
