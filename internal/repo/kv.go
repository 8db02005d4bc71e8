// Package repo contains all persistence logic for the routing dashboard.
// The KVStore port is the only thing the service layer sees; each backend
// (memory, Postgres, SQLite, MySQL, Redis) lives in its own file.
// No business logic lives here — only storage calls and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// KVStore is the persistence port: a whole-value key-value store.
// Values are opaque bytes; a Set replaces the previous value atomically from
// the caller's point of view.
type KVStore interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written. Errors wrap domain.ErrPersistence.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	// Errors wrap domain.ErrPersistence.
	Set(ctx context.Context, key string, value []byte) error
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgKVStore is the Postgres implementation of KVStore.
// The kv_store table is created by the goose migrations in /migrations.
type pgKVStore struct {
	db db
}

// NewPostgresKVStore constructs a KVStore backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresKVStore(db db) KVStore {
	return &pgKVStore{db: db}
}

// Get reads a single value by key.
func (s *pgKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT store_value FROM kv_store WHERE store_key = @key`

	var value []byte
	err := s.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("repo.pgKVStore.Get: %w: %w", domain.ErrPersistence, err)
	}
	return value, true, nil
}

// Set upserts the value for key.
func (s *pgKVStore) Set(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_store (store_key, store_value)
		VALUES (@key, @value)
		ON CONFLICT (store_key) DO UPDATE
		SET store_value = EXCLUDED.store_value,
		    updated_at  = now()`

	if _, err := s.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value}); err != nil {
		return fmt.Errorf("repo.pgKVStore.Set: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}
