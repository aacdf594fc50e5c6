// Package docstore provides the document database layer backing users,
// ingested sources, and per-user conversation memory.
//
// The store holds three flat collections of processed keys (users, urls,
// sitemaps) plus an opaque memory blob per user. Insertions are atomic
// insert-if-absent operations so concurrent identical submissions cannot
// both win the existence check.
package docstore

import "context"

// Collection names for ingested sources.
const (
	// CollectionURLs records URLs that have already been fetched and indexed.
	CollectionURLs = "urls"

	// CollectionSitemaps records sitemaps that have already been expanded.
	CollectionSitemaps = "sitemaps"
)

// Driver defines the interface for the document database backend.
type Driver interface {
	// AddUser inserts a user record if absent. Returns true if the record
	// was newly inserted, false if the user already existed.
	AddUser(ctx context.Context, userID string) (bool, error)

	// HasUser checks whether a user record exists.
	HasUser(ctx context.Context, userID string) (bool, error)

	// DeleteUser removes a user record and its memory blob. Returns false
	// if no record existed; in that case nothing is mutated.
	DeleteUser(ctx context.Context, userID string) (bool, error)

	// MarkIngested inserts a source key into the named collection if
	// absent. Returns true if the key was newly inserted, false if the
	// source was already recorded.
	MarkIngested(ctx context.Context, collection, key string) (bool, error)

	// HasIngested checks whether a source key is recorded in the named
	// collection.
	HasIngested(ctx context.Context, collection, key string) (bool, error)

	// Unmark removes a source key from the named collection. Used to
	// release a reservation when ingestion fails after MarkIngested.
	Unmark(ctx context.Context, collection, key string) error

	// LoadMemory returns the user's memory blob, or ErrNoMemory if none
	// has been saved.
	LoadMemory(ctx context.Context, userID string) ([]byte, error)

	// SaveMemory upserts the user's memory blob.
	SaveMemory(ctx context.Context, userID string, blob []byte) error

	// DeleteMemory removes the user's memory blob. Deleting absent memory
	// is not an error.
	DeleteMemory(ctx context.Context, userID string) error

	// Close releases any resources held by the driver.
	Close() error
}
