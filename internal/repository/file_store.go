package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/nikolayk812/storefront-cart/internal/port"
)

// fileStore keeps one file per key under dir, the closest local analogue of browser storage.
type fileStore struct {
	dir string
}

func NewFile(dir string) (port.KeyValueStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, port.ErrNotFound
		}
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	return data, nil
}

// Set writes to a temp file and renames it over the target, so readers never see a partial value.
func (s *fileStore) Set(_ context.Context, key string, value []byte) (err error) {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}

	defer func() {
		if err != nil {
			removeErr := os.Remove(tmp.Name())
			if removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
				err = errors.Join(err, fmt.Errorf("os.Remove: %w", removeErr))
			}
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove: %w", err)
	}

	return nil
}

func (s *fileStore) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	return filepath.Join(s.dir, url.PathEscape(key)+".json"), nil
}
