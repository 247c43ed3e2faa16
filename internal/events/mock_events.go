package events

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBus is a mock implementation of Bus using testify/mock.
type MockBus struct {
	mock.Mock
}

func (m *MockBus) Publish(ctx context.Context, event Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockBus) Subscribe(ctx context.Context, handler Handler) error {
	args := m.Called(ctx, handler)
	return args.Error(0)
}

func (m *MockBus) Close() error {
	args := m.Called()
	return args.Error(0)
}
