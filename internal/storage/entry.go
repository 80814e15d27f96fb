package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront-cart/internal/port"
)

type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// Entry is a typed view over a single key of a KeyValueStore.
type Entry[T any] struct {
	store port.KeyValueStore
	key   string
	codec Codec[T]
}

func NewEntry[T any](store port.KeyValueStore, key string, codec Codec[T]) (*Entry[T], error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}
	if codec == nil {
		return nil, fmt.Errorf("codec is nil")
	}

	return &Entry[T]{store: store, key: key, codec: codec}, nil
}

func (e *Entry[T]) Key() string {
	return e.key
}

// Load returns port.ErrNotFound when nothing is stored under the key.
func (e *Entry[T]) Load(ctx context.Context) (T, error) {
	var zero T

	data, err := e.store.Get(ctx, e.key)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return zero, err
		}
		return zero, fmt.Errorf("store.Get: %w", err)
	}

	v, err := e.codec.Decode(data)
	if err != nil {
		return zero, fmt.Errorf("codec.Decode: %w", err)
	}

	return v, nil
}

// LoadOrDefault falls back to def when the entry is absent or unreadable.
// The returned error explains a fallback caused by anything other than absence.
func (e *Entry[T]) LoadOrDefault(ctx context.Context, def T) (T, error) {
	v, err := e.Load(ctx)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return def, nil
		}
		return def, err
	}

	return v, nil
}

func (e *Entry[T]) Save(ctx context.Context, v T) error {
	data, err := e.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("codec.Encode: %w", err)
	}

	if err := e.store.Set(ctx, e.key, data); err != nil {
		return fmt.Errorf("store.Set: %w", err)
	}

	return nil
}

func (e *Entry[T]) Delete(ctx context.Context) error {
	if err := e.store.Delete(ctx, e.key); err != nil {
		return fmt.Errorf("store.Delete: %w", err)
	}

	return nil
}
