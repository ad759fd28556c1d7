package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "postkit:"

// scanBatchSize bounds one SCAN page during bulk clears.
const scanBatchSize = 200

// RedisStore is a Store backed by Redis. Keys are namespaced as
// <prefix><namespace>:<key>, so multiple services can share one Redis
// instance safely.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store. If prefix is empty, a default
// namespace prefix is used.
func NewRedisStore(client redis.UniversalClient, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	if strings.TrimSpace(prefix) == "" {
		prefix = defaultRedisPrefix
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) redisKey(namespace, key string) string {
	return s.prefix + namespace + ":" + key
}

// Get retrieves a value from the store.
func (s *RedisStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.redisKey(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return val, true, nil
}

// Put stores a value with no expiration; Redis applies its own eviction.
func (s *RedisStore) Put(ctx context.Context, namespace, key, value string) error {
	return s.client.Set(ctx, s.redisKey(namespace, key), value, 0).Err()
}

// Delete removes a value from the store.
func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	return s.client.Del(ctx, s.redisKey(namespace, key)).Err()
}

// Clear removes every key in the namespace.
func (s *RedisStore) Clear(ctx context.Context, namespace string) (int, error) {
	return s.deleteByPattern(ctx, s.prefix+namespace+":*")
}

// ClearPrefix removes keys with the given prefix from the namespace.
func (s *RedisStore) ClearPrefix(ctx context.Context, namespace, prefix string) (int, error) {
	return s.deleteByPattern(ctx, s.prefix+namespace+":"+prefix+"*")
}

// deleteByPattern scans for matching keys and deletes them in batches.
func (s *RedisStore) deleteByPattern(ctx context.Context, pattern string) (int, error) {
	count := 0
	cursor := uint64(0)

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return count, err
		}

		if len(keys) > 0 {
			deleted, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return count, err
			}

			count += int(deleted)
		}

		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
