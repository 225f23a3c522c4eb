package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "medrec:dedupe:"

// RedisStore keeps processed message ids in Redis so deduplication survives
// restarts and is shared across consumer instances. Entries expire after ttl;
// Kafka retention should not exceed it or very old redeliveries may slip
// through.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Seen(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Mark(ctx context.Context, id string) error {
	return s.client.Set(ctx, keyPrefix+id, 1, s.ttl).Err()
}
