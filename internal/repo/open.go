package repo

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // registers "mysql" driver for database/sql
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" driver for database/sql
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/routing-dashboard/migrations"
)

// Supported values for the STORE_DRIVER setting.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverRedis    = "redis"
)

// redisKeyPrefix namespaces dashboard keys inside a shared Redis database.
const redisKeyPrefix = "routing-dashboard:"

// OpenStore connects to the backend named by driver, verifies it is reachable
// and makes sure its schema exists. The returned close function releases the
// underlying connection pool and is never nil.
func OpenStore(ctx context.Context, driver, dsn string) (KVStore, func(), error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryKVStore(), func() {}, nil
	case DriverPostgres:
		return openPostgres(ctx, dsn)
	case DriverSQLite:
		return openSQL(ctx, "sqlite3", dsn, DialectSQLite)
	case DriverMySQL:
		return openSQL(ctx, "mysql", dsn, DialectMySQL)
	case DriverRedis:
		return openRedis(ctx, dsn)
	}
	return nil, nil, fmt.Errorf("repo.OpenStore: unknown store driver %q", driver)
}

// openPostgres creates a pgx pool and applies the goose migrations through a
// database/sql view of the same pool.
func openPostgres(ctx context.Context, dsn string) (KVStore, func(), error) {
	// New() does not open connections immediately — the Ping does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("repo.OpenStore: create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("repo.OpenStore: ping postgres: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	if _, err := migrations.Up(ctx, sqlDB); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("repo.OpenStore: %w", err)
	}

	return NewPostgresKVStore(pool), pool.Close, nil
}

func openSQL(ctx context.Context, driverName, dsn string, dialect Dialect) (KVStore, func(), error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("repo.OpenStore: open %s database: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("repo.OpenStore: ping %s database: %w", dialect, err)
	}

	store, err := NewSQLKVStore(db, dialect)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("repo.OpenStore: %w", err)
	}

	return store, func() { db.Close() }, nil
}

// openRedis accepts a redis:// URL, e.g. redis://localhost:6379/0.
func openRedis(ctx context.Context, dsn string) (KVStore, func(), error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("repo.OpenStore: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("repo.OpenStore: ping redis: %w", err)
	}
	return NewRedisKVStore(client, redisKeyPrefix), func() { client.Close() }, nil
}
