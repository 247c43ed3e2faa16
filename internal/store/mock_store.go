package store

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateSession(ctx context.Context, title, firstMessage string) (Session, error) {
	args := m.Called(ctx, title, firstMessage)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockStore) ListSessions(ctx context.Context) ([]Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Session), args.Error(1)
}

func (m *MockStore) GetSession(ctx context.Context, id string) (SessionData, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(SessionData), args.Error(1)
}

func (m *MockStore) AppendMessage(ctx context.Context, id string, msg Message) (Session, error) {
	args := m.Called(ctx, id, msg)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockStore) RenameSession(ctx context.Context, id, title string) (Session, error) {
	args := m.Called(ctx, id, title)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockStore) DeleteSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) PurgeIdle(ctx context.Context, before time.Time) ([]string, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
