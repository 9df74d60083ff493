package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
)

var (
	_ domain.PreferenceStore = (*RedisPreferenceStore)(nil)
	_ domain.PreferenceStore = (*InMemoryPreferenceStore)(nil)
)

// RedisPreferenceStore keeps preferences as plain redis strings without
// expiry, namespaced under "preferences:".
type RedisPreferenceStore struct {
	rdb *redis.Client
}

func NewRedisPreferenceStore(rdb *redis.Client) *RedisPreferenceStore {
	return &RedisPreferenceStore{rdb: rdb}
}

func (s *RedisPreferenceStore) key(name string) string {
	return fmt.Sprintf("preferences:%s", name)
}

func (s *RedisPreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("repository: read preference %q failed: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisPreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("repository: write preference %q failed: %w", key, err)
	}
	return nil
}

type InMemoryPreferenceStore struct {
	values map[string]string

	mu sync.RWMutex
}

func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{values: make(map[string]string)}
}

func (s *InMemoryPreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

func (s *InMemoryPreferenceStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
