package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// redisKVStore stores each value as a plain Redis string under prefix+key.
type redisKVStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisKVStore constructs a KVStore over client. prefix namespaces keys so
// several dashboards can share one Redis database.
func NewRedisKVStore(client redis.Cmdable, prefix string) KVStore {
	return &redisKVStore{client: client, prefix: prefix}
}

func (s *redisKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("repo.redisKVStore.Get: %w: %w", domain.ErrPersistence, err)
	}
	return value, true, nil
}

func (s *redisKVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("repo.redisKVStore.Set: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}
