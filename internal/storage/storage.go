// Package storage is the persisted key/value store that plays the role of
// browser local storage: every store keeps its durable copy under one key.
//
// Two backends exist: SQLite (the default, one file per installation) and an
// in-memory map for tests and throwaway sessions. Both honor the same
// contract: Get returns (nil, nil) for an absent key, Delete is idempotent,
// and Atomic applies all writes of its callback or none of them.
package storage

import "context"

// Keys of the persisted layout.
const (
	KeyUsers    = "users"    // JSON array of accounts including secrets
	KeyTasks    = "tasks"    // JSON array of tasks
	KeyToken    = "token"    // opaque session marker
	KeyUser     = "user"     // JSON account copy of the session holder (no secret)
	KeyDarkMode = "darkMode" // "true" | "false"
)

// Reader reads single keys.
type Reader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Writer mutates single keys.
type Writer interface {
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is the full persisted storage surface.
type Store interface {
	Reader
	Writer

	// List returns a snapshot of every key/value pair.
	List(ctx context.Context) (map[string][]byte, error)

	// Clear removes every key.
	Clear(ctx context.Context) error

	// Atomic runs fn with a Writer whose writes become visible together when
	// fn returns nil and are discarded otherwise.
	Atomic(ctx context.Context, fn func(ctx context.Context, w Writer) error) error

	Close() error
}
