package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSearchResults(ctx context.Context, key string) ([]SearchHit, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SearchHit), args.Error(1)
}

func (m *MockCache) SetSearchResults(ctx context.Context, key string, hits []SearchHit, ttl time.Duration) error {
	args := m.Called(ctx, key, hits, ttl)
	return args.Error(0)
}

func (m *MockCache) GetTranslation(ctx context.Context, key string) (*Translation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Translation), args.Error(1)
}

func (m *MockCache) SetTranslation(ctx context.Context, key string, t *Translation, ttl time.Duration) error {
	args := m.Called(ctx, key, t, ttl)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
