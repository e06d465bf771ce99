package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medbill/internal/domain"
)

// MockStructuredExtractor is a mock implementation of port.StructuredExtractor.
type MockStructuredExtractor struct {
	mock.Mock
}

func (m *MockStructuredExtractor) ExtractLineItems(ctx context.Context, text string) (map[string]any, domain.TokenUsage, error) {
	return m.result(m.Called(ctx, text))
}

func (m *MockStructuredExtractor) ExtractTotals(ctx context.Context, text string) (map[string]any, domain.TokenUsage, error) {
	return m.result(m.Called(ctx, text))
}

func (m *MockStructuredExtractor) Refine(ctx context.Context, prompt string) (map[string]any, domain.TokenUsage, error) {
	return m.result(m.Called(ctx, prompt))
}

func (m *MockStructuredExtractor) result(args mock.Arguments) (map[string]any, domain.TokenUsage, error) {
	var out map[string]any
	if v := args.Get(0); v != nil {
		out = v.(map[string]any)
	}
	return out, args.Get(1).(domain.TokenUsage), args.Error(2)
}
