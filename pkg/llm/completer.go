// Package llm defines the completion provider consumed during question
// answering. A Completer takes a question, the prior conversation turns, and
// the retrieved context documents, and produces a grounded answer along with
// the documents it was grounded on.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
)

// Roles for conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn of conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything a Completer needs to answer one question.
type Request struct {
	// Question is the user's current question.
	Question string

	// History is the prior conversation, oldest first.
	History []Message

	// Documents is the retrieved context to ground the answer on.
	Documents []retrieval.Document
}

// Response is the result of a completion.
type Response struct {
	// Answer is the generated answer text.
	Answer string

	// SourceDocuments are the documents the answer was grounded on.
	SourceDocuments []retrieval.Document
}

// Completer produces answers from questions, history, and retrieved context.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Close releases any resources held by the completer.
	Close() error
}

// SystemPrompt renders the retrieved documents into the instruction block
// shared by completer implementations.
func SystemPrompt(docs []retrieval.Document) string {
	var b strings.Builder
	b.WriteString("You are a helpful support assistant. Answer the user's question using the context documents below. If the context does not contain the answer, say so.\n")

	for i, doc := range docs {
		fmt.Fprintf(&b, "\n[Document %d] (source: %s)\n%s\n", i+1, doc.Source, doc.Text)
	}

	return b.String()
}
