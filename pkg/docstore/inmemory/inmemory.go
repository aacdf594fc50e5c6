// Package inmemory provides an in-process docstore.Driver backed by maps.
// Used by tests and as the zero-configuration dev backend.
package inmemory

import (
	"context"
	"sync"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
)

// Driver implements docstore.Driver using in-process data structures.
type Driver struct {
	mu sync.Mutex

	users map[string]struct{}

	// ingested maps collection name -> set of recorded source keys.
	ingested map[string]map[string]struct{}

	// memory maps user ID -> opaque memory blob.
	memory map[string][]byte
}

// NewDriver creates an empty in-memory document store.
func NewDriver() *Driver {
	return &Driver{
		users:    make(map[string]struct{}),
		ingested: make(map[string]map[string]struct{}),
		memory:   make(map[string][]byte),
	}
}

// AddUser inserts a user record if absent.
func (d *Driver) AddUser(_ context.Context, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[userID]; ok {
		return false, nil
	}
	d.users[userID] = struct{}{}
	return true, nil
}

// HasUser checks whether a user record exists.
func (d *Driver) HasUser(_ context.Context, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.users[userID]
	return ok, nil
}

// DeleteUser removes a user record and its memory blob.
func (d *Driver) DeleteUser(_ context.Context, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[userID]; !ok {
		return false, nil
	}
	delete(d.users, userID)
	delete(d.memory, userID)
	return true, nil
}

// MarkIngested inserts a source key into the named collection if absent.
func (d *Driver) MarkIngested(_ context.Context, collection, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	coll, ok := d.ingested[collection]
	if !ok {
		coll = make(map[string]struct{})
		d.ingested[collection] = coll
	}

	if _, ok := coll[key]; ok {
		return false, nil
	}
	coll[key] = struct{}{}
	return true, nil
}

// HasIngested checks whether a source key is recorded.
func (d *Driver) HasIngested(_ context.Context, collection, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	coll, ok := d.ingested[collection]
	if !ok {
		return false, nil
	}
	_, ok = coll[key]
	return ok, nil
}

// Unmark removes a source key from the named collection.
func (d *Driver) Unmark(_ context.Context, collection, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if coll, ok := d.ingested[collection]; ok {
		delete(coll, key)
	}
	return nil
}

// LoadMemory returns the user's memory blob.
func (d *Driver) LoadMemory(_ context.Context, userID string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	blob, ok := d.memory[userID]
	if !ok {
		return nil, docstore.ErrNoMemory
	}

	// Return a copy to avoid callers mutating internal state.
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// SaveMemory upserts the user's memory blob.
func (d *Driver) SaveMemory(_ context.Context, userID string, blob []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	d.memory[userID] = stored
	return nil
}

// DeleteMemory removes the user's memory blob.
func (d *Driver) DeleteMemory(_ context.Context, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.memory, userID)
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}
