// Package kvstore abstracts the shared key-value state (sessions, narratives)
// so the same logic runs against an in-process store or a shared redis.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a TTL-bounded key-value store. The TTL is fixed per store instance.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Replace writes only if key is present and refreshes its TTL.
	// It never recreates a key that expired or was deleted.
	Replace(ctx context.Context, key string, value []byte) (bool, error)
	Delete(ctx context.Context, key string) (bool, error)
	Close() error
}
