package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medbill/internal/domain"
)

// MockBillExtractor is a mock implementation of port.BillExtractor.
type MockBillExtractor struct {
	mock.Mock
}

func (m *MockBillExtractor) Extract(ctx context.Context, ref string) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}
