package testhelpers

import (
	"context"

	"adsbot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Credit(ctx context.Context, accountID, amount int64, kind entities.EventKind, meta map[string]any) (int64, error) {
	args := m.Called(ctx, accountID, amount, kind, meta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, accountID, amount int64, kind entities.EventKind, meta map[string]any) (int64, error) {
	args := m.Called(ctx, accountID, amount, kind, meta)
	return args.Get(0).(int64), args.Error(1)
}
