package leaderboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const topCacheKey = "leaderboard:top"

type Cache interface {
	Get(ctx context.Context) ([]Entry, bool, error)
	Set(ctx context.Context, entries []Entry) error
	Invalidate(ctx context.Context) error
}

// RedisCache keeps the serialized top list under one key with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context) ([]Entry, bool, error) {
	data, err := c.client.Get(ctx, topCacheKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *RedisCache) Set(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, topCacheKey, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, topCacheKey).Err()
}
