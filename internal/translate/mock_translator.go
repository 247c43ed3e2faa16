package translate

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTranslator is a mock implementation of Translator using testify/mock.
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, text, target string) (Result, error) {
	args := m.Called(ctx, text, target)
	return args.Get(0).(Result), args.Error(1)
}
