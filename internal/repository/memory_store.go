package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/port"
)

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemory() port.KeyValueStore {
	return &memoryStore{
		entries: make(map[string][]byte),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, port.ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = append([]byte(nil), value...)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
