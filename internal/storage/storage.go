package storage

import (
	"context"
	"errors"
)

// KeyValueStore is the durable session storage the cart persists into.
// Implementations must treat a missing key as ErrNotFound, never as a
// fault.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
