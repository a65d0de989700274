package testhelpers

import (
	"context"
	"time"

	"adsbot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByExternalID(ctx context.Context, externalID string) (*entities.Account, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, externalID, username string) (*entities.Account, error) {
	args := m.Called(ctx, externalID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, id int64, newBalance int64) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) SetInviter(ctx context.Context, inviteeID, inviterID int64) (bool, error) {
	args := m.Called(ctx, inviteeID, inviterID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ClaimReferralBonus(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockLedgerEventRepository is a mock implementation of LedgerEventRepository
type MockLedgerEventRepository struct {
	mock.Mock
}

func (m *MockLedgerEventRepository) Append(ctx context.Context, event *entities.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockLedgerEventRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEvent, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEvent), args.Error(1)
}

func (m *MockLedgerEventRepository) SumDeltas(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerEventRepository) CountAdViewsSince(ctx context.Context, accountID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, accountID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerEventRepository) HasTaskCredit(ctx context.Context, accountID int64, taskID string) (bool, error) {
	args := m.Called(ctx, accountID, taskID)
	return args.Bool(0), args.Error(1)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(ctx context.Context, inviterID, inviteeID int64) error {
	args := m.Called(ctx, inviterID, inviteeID)
	return args.Error(0)
}

func (m *MockReferralRepository) CountByInviter(ctx context.Context, inviterID int64) (int64, error) {
	args := m.Called(ctx, inviterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferralRepository) ListByInviter(ctx context.Context, inviterID int64) ([]*entities.ReferralDetail, error) {
	args := m.Called(ctx, inviterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ReferralDetail), args.Error(1)
}

// MockLotteryTicketRepository is a mock implementation of LotteryTicketRepository
type MockLotteryTicketRepository struct {
	mock.Mock
}

func (m *MockLotteryTicketRepository) Create(ctx context.Context, ticket *entities.LotteryTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockLotteryTicketRepository) GetParticipantsForPeriod(ctx context.Context, period string) ([]*entities.LotteryParticipant, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LotteryParticipant), args.Error(1)
}

func (m *MockLotteryTicketRepository) TotalTicketsByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockLotteryDrawRepository is a mock implementation of LotteryDrawRepository
type MockLotteryDrawRepository struct {
	mock.Mock
}

func (m *MockLotteryDrawRepository) Create(ctx context.Context, draw *entities.LotteryDraw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockLotteryDrawRepository) GetByPeriod(ctx context.Context, period string) (*entities.LotteryDraw, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryDraw), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *entities.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, id int64, status entities.WithdrawalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) ListByAccount(ctx context.Context, accountID int64) ([]*entities.Withdrawal, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) ListPending(ctx context.Context) ([]*entities.Withdrawal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Withdrawal), args.Error(1)
}
