package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// Dialect selects the SQL flavour used by a database/sql backed KVStore.
type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// SQLKVStore is the database/sql implementation of KVStore shared by the
// SQLite and MySQL backends. Only the schema and upsert statements differ.
type SQLKVStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLKVStore constructs a KVStore over db. Call InitSchema before first use.
func NewSQLKVStore(db *sql.DB, dialect Dialect) (*SQLKVStore, error) {
	switch dialect {
	case DialectSQLite, DialectMySQL:
	default:
		return nil, fmt.Errorf("repo.NewSQLKVStore: unsupported dialect %q", dialect)
	}
	return &SQLKVStore{db: db, dialect: dialect}, nil
}

// InitSchema creates the kv_store table if it does not exist.
func (s *SQLKVStore) InitSchema(ctx context.Context) error {
	var q string
	switch s.dialect {
	case DialectSQLite:
		q = `
		CREATE TABLE IF NOT EXISTS kv_store (
			store_key   TEXT PRIMARY KEY,
			store_value BLOB NOT NULL,
			updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	case DialectMySQL:
		q = `
		CREATE TABLE IF NOT EXISTS kv_store (
			store_key   VARCHAR(191) NOT NULL PRIMARY KEY,
			store_value LONGBLOB NOT NULL,
			updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`
	}
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("repo.SQLKVStore.InitSchema: create kv_store table: %w", err)
	}
	return nil
}

// Get reads a single value by key.
func (s *SQLKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT store_value FROM kv_store WHERE store_key = ?`

	var value []byte
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("repo.SQLKVStore.Get: %w: %w", domain.ErrPersistence, err)
	}
	return value, true, nil
}

// Set upserts the value for key.
func (s *SQLKVStore) Set(ctx context.Context, key string, value []byte) error {
	var q string
	switch s.dialect {
	case DialectSQLite:
		q = `
		INSERT INTO kv_store (store_key, store_value) VALUES (?, ?)
		ON CONFLICT (store_key) DO UPDATE
		SET store_value = excluded.store_value, updated_at = CURRENT_TIMESTAMP`
	case DialectMySQL:
		q = `
		INSERT INTO kv_store (store_key, store_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE store_value = VALUES(store_value)`
	}
	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("repo.SQLKVStore.Set: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}
