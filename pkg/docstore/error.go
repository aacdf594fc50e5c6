package docstore

import "errors"

var (
	// ErrNoMemory is returned when a user has no saved memory blob.
	ErrNoMemory = errors.New("no memory for user")

	// ErrConnection is returned when the document database connection fails.
	ErrConnection = errors.New("document store connection failed")
)
