package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

const (
	getEntrySQL = `SELECT value FROM storage_entries WHERE key = $1`

	setEntrySQL = `INSERT INTO storage_entries (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	deleteEntrySQL = `DELETE FROM storage_entries WHERE key = $1`
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresStore struct {
	q querier
}

func NewPostgres(pool *pgxpool.Pool) port.KeyValueStore {
	return &postgresStore{
		q: pool,
	}
}

// NewPostgresWithTx lets a caller persist the cart inside its own transaction,
// e.g. clearing the cart in the same transaction that records an order.
func NewPostgresWithTx(tx pgx.Tx) port.KeyValueStore {
	return &postgresStore{
		q: tx,
	}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	var value []byte
	if err := s.q.QueryRow(ctx, getEntrySQL, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrNotFound
		}
		return nil, fmt.Errorf("q.QueryRow: %w", err)
	}

	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	// value column is NOT NULL
	if value == nil {
		value = []byte{}
	}

	if _, err := s.q.Exec(ctx, setEntrySQL, key, value); err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	return nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := s.q.Exec(ctx, deleteEntrySQL, key); err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	return nil
}
