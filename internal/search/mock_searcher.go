package search

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSearcher is a mock implementation of Searcher using testify/mock.
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, query string, limit int) []Result {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]Result)
}
