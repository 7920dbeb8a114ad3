package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// KV is a plain string-keyed store
type KV interface {
	// Get returns ok=false when the key does not exist
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

type redisKV struct {
	client *redis.Client
}

// NewRedisKV creates a KV backed by Redis. Keys never expire.
func NewRedisKV(client *redis.Client) KV {
	return &redisKV{client: client}
}

func (s *redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

func (s *redisKV) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisKV) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
