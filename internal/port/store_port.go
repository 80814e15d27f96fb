package port

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KeyValueStore is a durable byte sink scoped to one storefront origin.
// Get returns ErrNotFound for an absent key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
