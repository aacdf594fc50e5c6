// Package sqlite provides a SQLite-backed docstore.Driver.
//
// Insert-if-absent semantics come from INSERT OR IGNORE against primary-key
// columns, so existence check and insert are a single atomic statement.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
)

// Driver implements docstore.Driver using SQLite.
type Driver struct {
	db *sql.DB
}

// NewDriver creates a new SQLite-backed document store.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", docstore.ErrConnection, err)
	}

	d := &Driver{db: db}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return d, nil
}

// migrate creates the necessary tables if they don't exist.
func (d *Driver) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sources (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, key)
	);

	CREATE TABLE IF NOT EXISTS memories (
		user_id TEXT PRIMARY KEY,
		blob BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// AddUser inserts a user record if absent.
func (d *Driver) AddUser(ctx context.Context, userID string) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (user_id) VALUES (?)`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// HasUser checks whether a user record exists.
func (d *Driver) HasUser(ctx context.Context, userID string) (bool, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE user_id = ? LIMIT 1`, userID)

	var exists int
	err := row.Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	return true, nil
}

// DeleteUser removes a user record and its memory blob.
func (d *Driver) DeleteUser(ctx context.Context, userID string) (bool, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE user_id = ?`, userID); err != nil {
		return false, fmt.Errorf("failed to delete memory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return true, nil
}

// MarkIngested inserts a source key into the named collection if absent.
func (d *Driver) MarkIngested(ctx context.Context, collection, key string) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sources (collection, key) VALUES (?, ?)`, collection, key)
	if err != nil {
		return false, fmt.Errorf("failed to insert source: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// HasIngested checks whether a source key is recorded.
func (d *Driver) HasIngested(ctx context.Context, collection, key string) (bool, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT 1 FROM sources WHERE collection = ? AND key = ? LIMIT 1`, collection, key)

	var exists int
	err := row.Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query source: %w", err)
	}
	return true, nil
}

// Unmark removes a source key from the named collection.
func (d *Driver) Unmark(ctx context.Context, collection, key string) error {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM sources WHERE collection = ? AND key = ?`, collection, key); err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	return nil
}

// LoadMemory returns the user's memory blob.
func (d *Driver) LoadMemory(ctx context.Context, userID string) ([]byte, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT blob FROM memories WHERE user_id = ?`, userID)

	var blob []byte
	err := row.Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNoMemory
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan memory: %w", err)
	}
	return blob, nil
}

// SaveMemory upserts the user's memory blob.
func (d *Driver) SaveMemory(ctx context.Context, userID string, blob []byte) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO memories (user_id, blob, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id) DO UPDATE SET blob = excluded.blob, updated_at = CURRENT_TIMESTAMP`,
		userID, blob)
	if err != nil {
		return fmt.Errorf("failed to upsert memory: %w", err)
	}
	return nil
}

// DeleteMemory removes the user's memory blob.
func (d *Driver) DeleteMemory(ctx context.Context, userID string) error {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM memories WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}
