package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// Used when CACHE_PROVIDER=none or Redis is unavailable; every read is a miss.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetSearchResults(ctx context.Context, key string) ([]SearchHit, error) {
	return nil, nil
}

func (c *NoOpCache) SetSearchResults(ctx context.Context, key string, hits []SearchHit, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) GetTranslation(ctx context.Context, key string) (*Translation, error) {
	return nil, nil
}

func (c *NoOpCache) SetTranslation(ctx context.Context, key string, t *Translation, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
