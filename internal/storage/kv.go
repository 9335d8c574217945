package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when a key has no value.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the durable key-value surface cart snapshots are written
// through. The cart persistence adapter is the only component that touches
// cart keys; everything else goes through it.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
