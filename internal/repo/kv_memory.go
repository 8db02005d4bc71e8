package repo

import (
	"context"
	"sync"
)

// compile-time check: memoryKVStore must satisfy KVStore.
var _ KVStore = (*memoryKVStore)(nil)

// memoryKVStore keeps values in a map. Used as the default backend and in tests.
type memoryKVStore struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemoryKVStore returns an empty in-process KVStore.
func NewMemoryKVStore() KVStore {
	return &memoryKVStore{m: make(map[string][]byte)}
}

func (s *memoryKVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *memoryKVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.m[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}
