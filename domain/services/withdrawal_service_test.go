package services

import (
	"context"
	"strings"
	"testing"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalService_Create(t *testing.T) {
	ctx := context.Background()
	address := "T-address"

	t.Run("holds points and inserts pending row", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		withdrawalRepo := new(testhelpers.MockWithdrawalRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewWithdrawalService(accountRepo, withdrawalRepo, ledger)

		accountRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(&entities.Account{ID: 1, Balance: 1500}, nil)
		ledger.On("Debit", ctx, int64(1), int64(1000), entities.EventKindWithdrawalHold, mock.Anything).Return(int64(500), nil)
		withdrawalRepo.On("Create", ctx, mock.MatchedBy(func(w *entities.Withdrawal) bool {
			return w.AccountID == 1 && w.Tokens == 10 && w.PointsDebited == 1000 && w.Status == entities.WithdrawalStatusPending
		})).Return(nil)

		withdrawal, err := svc.Create(ctx, 1, 10, &address)
		require.NoError(t, err)
		assert.Equal(t, entities.WithdrawalStatusPending, withdrawal.Status)
		assert.Equal(t, int64(1000), withdrawal.PointsDebited)
	})

	t.Run("below minimum tokens", func(t *testing.T) {
		svc := NewWithdrawalService(new(testhelpers.MockAccountRepository), new(testhelpers.MockWithdrawalRepository), new(testhelpers.MockLedgerService))

		_, err := svc.Create(ctx, 1, MinWithdrawTokens-1, &address)
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("address too long", func(t *testing.T) {
		svc := NewWithdrawalService(new(testhelpers.MockAccountRepository), new(testhelpers.MockWithdrawalRepository), new(testhelpers.MockLedgerService))

		longAddress := strings.Repeat("a", 201)
		_, err := svc.Create(ctx, 1, 10, &longAddress)
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("insufficient points", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewWithdrawalService(accountRepo, new(testhelpers.MockWithdrawalRepository), ledger)

		accountRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(&entities.Account{ID: 1, Balance: 999}, nil)

		_, err := svc.Create(ctx, 1, 10, &address)
		assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
		ledger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWithdrawalService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("pending withdrawal approved without balance change", func(t *testing.T) {
		withdrawalRepo := new(testhelpers.MockWithdrawalRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewWithdrawalService(new(testhelpers.MockAccountRepository), withdrawalRepo, ledger)

		pending := &entities.Withdrawal{ID: 5, AccountID: 1, Tokens: 10, PointsDebited: 1000, Status: entities.WithdrawalStatusPending}
		withdrawalRepo.On("GetByIDForUpdate", ctx, int64(5)).Return(pending, nil)
		withdrawalRepo.On("UpdateStatus", ctx, int64(5), entities.WithdrawalStatusApproved).Return(nil)

		withdrawal, err := svc.Approve(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, entities.WithdrawalStatusApproved, withdrawal.Status)
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		withdrawalRepo := new(testhelpers.MockWithdrawalRepository)
		svc := NewWithdrawalService(new(testhelpers.MockAccountRepository), withdrawalRepo, new(testhelpers.MockLedgerService))

		withdrawalRepo.On("GetByIDForUpdate", ctx, int64(404)).Return(nil, nil)

		_, err := svc.Approve(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("terminal state rejected", func(t *testing.T) {
		withdrawalRepo := new(testhelpers.MockWithdrawalRepository)
		svc := NewWithdrawalService(new(testhelpers.MockAccountRepository), withdrawalRepo, new(testhelpers.MockLedgerService))

		rejected := &entities.Withdrawal{ID: 5, Status: entities.WithdrawalStatusRejected}
		withdrawalRepo.On("GetByIDForUpdate", ctx, int64(5)).Return(rejected, nil)

		_, err := svc.Approve(ctx, 5)
		assert.ErrorIs(t, err, domain.ErrNotPending)
		withdrawalRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWithdrawalService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("refunds exactly the held points", func(t *testing.T) {
		withdrawalRepo := new(testhelpers.MockWithdrawalRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewWithdrawalService(new(testhelpers.MockAccountRepository), withdrawalRepo, ledger)

		pending := &entities.Withdrawal{ID: 5, AccountID: 1, Tokens: 10, PointsDebited: 1000, Status: entities.WithdrawalStatusPending}
		withdrawalRepo.On("GetByIDForUpdate", ctx, int64(5)).Return(pending, nil)
		ledger.On("Credit", ctx, int64(1), int64(1000), entities.EventKindWithdrawalRefund, mock.MatchedBy(func(meta map[string]any) bool {
			return meta["reason"] == "invalid address"
		})).Return(int64(1500), nil)
		withdrawalRepo.On("UpdateStatus", ctx, int64(5), entities.WithdrawalStatusRejected).Return(nil)

		withdrawal, err := svc.Reject(ctx, 5, "invalid address")
		require.NoError(t, err)
		assert.Equal(t, entities.WithdrawalStatusRejected, withdrawal.Status)
		ledger.AssertExpectations(t)
	})

	t.Run("already approved cannot be rejected", func(t *testing.T) {
		withdrawalRepo := new(testhelpers.MockWithdrawalRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewWithdrawalService(new(testhelpers.MockAccountRepository), withdrawalRepo, ledger)

		approved := &entities.Withdrawal{ID: 5, Status: entities.WithdrawalStatusApproved}
		withdrawalRepo.On("GetByIDForUpdate", ctx, int64(5)).Return(approved, nil)

		_, err := svc.Reject(ctx, 5, "nope")
		assert.ErrorIs(t, err, domain.ErrNotPending)
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
