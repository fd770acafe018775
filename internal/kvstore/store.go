package kvstore

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrEmptyKey       = errors.New("empty key")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Store is a document store with per-key atomic writes.
// Delete on a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
