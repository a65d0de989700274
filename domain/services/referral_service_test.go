package services

import (
	"context"
	"testing"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReferralService_GetOrCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("empty external id rejected", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		svc := NewReferralService(accountRepo, new(testhelpers.MockReferralRepository), new(testhelpers.MockLedgerService))

		_, err := svc.GetOrCreateAccount(ctx, "", "someone")
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("delegates to repository", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		svc := NewReferralService(accountRepo, new(testhelpers.MockReferralRepository), new(testhelpers.MockLedgerService))

		account := &entities.Account{ID: 1, ExternalID: "100", Username: "alice"}
		accountRepo.On("GetOrCreate", ctx, "100", "alice").Return(account, nil)

		got, err := svc.GetOrCreateAccount(ctx, "100", "alice")
		require.NoError(t, err)
		assert.Equal(t, account, got)
	})
}

func TestReferralService_AwardReferral(t *testing.T) {
	ctx := context.Background()

	inviter := func() *entities.Account { return &entities.Account{ID: 1, ExternalID: "100"} }
	invitee := func() *entities.Account { return &entities.Account{ID: 2, ExternalID: "200"} }

	t.Run("successful award credits both sides", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		referralRepo := new(testhelpers.MockReferralRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewReferralService(accountRepo, referralRepo, ledger)

		accountRepo.On("GetOrCreate", ctx, "100", "").Return(inviter(), nil)
		accountRepo.On("GetOrCreate", ctx, "200", "").Return(invitee(), nil)
		accountRepo.On("SetInviter", ctx, int64(2), int64(1)).Return(true, nil)
		referralRepo.On("Create", ctx, int64(1), int64(2)).Return(nil)
		ledger.On("Credit", ctx, int64(1), InviterBonusPoints, entities.EventKindReferralBonus, mock.Anything).Return(int64(50), nil)
		accountRepo.On("ClaimReferralBonus", ctx, int64(2)).Return(true, nil)
		ledger.On("Credit", ctx, int64(2), InviteeBonusPoints, entities.EventKindReferralBonus, mock.Anything).Return(int64(25), nil)

		result, err := svc.AwardReferral(ctx, "100", "200")
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.InviterID)
		assert.Equal(t, int64(2), result.InviteeID)
		assert.Equal(t, InviterBonusPoints, result.InviterBonus)
		assert.Equal(t, InviteeBonusPoints, result.InviteeBonus)
		assert.True(t, result.InviteeCredited)

		accountRepo.AssertExpectations(t)
		referralRepo.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})

	t.Run("self referral rejected", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		svc := NewReferralService(accountRepo, new(testhelpers.MockReferralRepository), new(testhelpers.MockLedgerService))

		accountRepo.On("GetOrCreate", ctx, "100", "").Return(inviter(), nil)

		_, err := svc.AwardReferral(ctx, "100", "100")
		assert.ErrorIs(t, err, domain.ErrSelfReferral)
		accountRepo.AssertNotCalled(t, "SetInviter", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already referred fast path", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		svc := NewReferralService(accountRepo, new(testhelpers.MockReferralRepository), new(testhelpers.MockLedgerService))

		priorInviter := int64(9)
		referred := invitee()
		referred.ReferredBy = &priorInviter

		accountRepo.On("GetOrCreate", ctx, "100", "").Return(inviter(), nil)
		accountRepo.On("GetOrCreate", ctx, "200", "").Return(referred, nil)

		_, err := svc.AwardReferral(ctx, "100", "200")
		assert.ErrorIs(t, err, domain.ErrAlreadyReferred)
		accountRepo.AssertNotCalled(t, "SetInviter", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent claim loses conditional update", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		referralRepo := new(testhelpers.MockReferralRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewReferralService(accountRepo, referralRepo, ledger)

		accountRepo.On("GetOrCreate", ctx, "100", "").Return(inviter(), nil)
		accountRepo.On("GetOrCreate", ctx, "200", "").Return(invitee(), nil)
		accountRepo.On("SetInviter", ctx, int64(2), int64(1)).Return(false, nil)

		_, err := svc.AwardReferral(ctx, "100", "200")
		assert.ErrorIs(t, err, domain.ErrAlreadyReferred)
		referralRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invitee bonus already claimed credits inviter only", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		referralRepo := new(testhelpers.MockReferralRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewReferralService(accountRepo, referralRepo, ledger)

		accountRepo.On("GetOrCreate", ctx, "100", "").Return(inviter(), nil)
		accountRepo.On("GetOrCreate", ctx, "200", "").Return(invitee(), nil)
		accountRepo.On("SetInviter", ctx, int64(2), int64(1)).Return(true, nil)
		referralRepo.On("Create", ctx, int64(1), int64(2)).Return(nil)
		ledger.On("Credit", ctx, int64(1), InviterBonusPoints, entities.EventKindReferralBonus, mock.Anything).Return(int64(50), nil)
		accountRepo.On("ClaimReferralBonus", ctx, int64(2)).Return(false, nil)

		result, err := svc.AwardReferral(ctx, "100", "200")
		require.NoError(t, err)
		assert.False(t, result.InviteeCredited)
		assert.Equal(t, int64(0), result.InviteeBonus)
		ledger.AssertNumberOfCalls(t, "Credit", 1)
	})
}
