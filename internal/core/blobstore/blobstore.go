// Package blobstore defines the opaque blob store interface backing the
// encrypted credential and session state.
package blobstore

import (
	"context"
	"time"
)

// Store defines the interface for blob store operations. Values are opaque
// byte slices; callers that need confidentiality encrypt before storing.
// Reads and writes carry no transactional guarantee across keys: the design
// accepts last-writer-wins on concurrent updates of the same key.
type Store interface {
	// Get retrieves a value by key.
	// Returns nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key from the store.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Ping checks if the store connection is alive.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
