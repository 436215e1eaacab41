package database

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartStore persists one opaque cart blob per key. The cart service owns
// serialization and validation; the store never inspects the blob.
type CartStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
}

// RedisCartStore keeps each cart as a single JSON blob under
// cart:user:<key> with a TTL refreshed on every write.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func (s *RedisCartStore) key(k string) string {
	return "cart:user:" + k
}

// Get returns (nil, nil) when no cart exists for the key.
func (s *RedisCartStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisCartStore) Set(ctx context.Context, key string, blob []byte) error {
	return s.client.Set(ctx, s.key(key), blob, s.ttl).Err()
}

func (s *RedisCartStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// MemoryCartStore is an in-process CartStore, used in tests and when no
// Redis URL is configured.
type MemoryCartStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{blobs: make(map[string][]byte)}
}

func (s *MemoryCartStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (s *MemoryCartStore) Set(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.blobs[key] = stored
	return nil
}

func (s *MemoryCartStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
