package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot exists for the key.
var ErrNotFound = errors.New("store: snapshot not found")

// SnapshotStore persists serialized cart snapshots by key. Snapshots are
// opaque JSON strings to the store; the cart layer owns their shape.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, snapshot string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
