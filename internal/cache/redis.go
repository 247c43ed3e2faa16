package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "aio-chat:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects and pings Redis.
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) GetSearchResults(ctx context.Context, key string) ([]SearchHit, error) {
	var hits []SearchHit
	found, err := c.getJSON(ctx, key, &hits)
	if err != nil || !found {
		return nil, err
	}
	return hits, nil
}

func (c *RedisCache) SetSearchResults(ctx context.Context, key string, hits []SearchHit, ttl time.Duration) error {
	return c.setJSON(ctx, key, hits, ttl)
}

func (c *RedisCache) GetTranslation(ctx context.Context, key string) (*Translation, error) {
	var t Translation
	found, err := c.getJSON(ctx, key, &t)
	if err != nil || !found {
		return nil, err
	}
	return &t, nil
}

func (c *RedisCache) SetTranslation(ctx context.Context, key string, t *Translation, ttl time.Duration) error {
	return c.setJSON(ctx, key, t, ttl)
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, data, ttl).Err()
}
