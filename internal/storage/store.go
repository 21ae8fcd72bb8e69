// Package storage provides the key-value port wizard snapshots persist through.
package storage

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store,Pinger

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("snapshot not found")

// Store defines the interface for snapshot storage operations.
// This abstraction allows swapping storage backends (file, SQLite, PostgreSQL,
// Redis, memory) without changing the wizard.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound (possibly wrapped) if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Pinger is implemented by stores that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Purger is implemented by stores without native expiry. PurgeBefore deletes
// snapshots last written before cutoff and returns how many were removed.
type Purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
