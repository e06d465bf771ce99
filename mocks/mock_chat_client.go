package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medbill/internal/port"
)

// MockChatClient is a mock implementation of port.ChatClient.
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) CompleteJSON(ctx context.Context, system, user string) (*port.ChatCompletion, error) {
	args := m.Called(ctx, system, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ChatCompletion), args.Error(1)
}
