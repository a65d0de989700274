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

func TestAdViewService_CreditAdView(t *testing.T) {
	ctx := context.Background()
	account := func() *entities.Account { return &entities.Account{ID: 1, ExternalID: "100", Balance: 10} }

	t.Run("credits main ad value", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		eventRepo := new(testhelpers.MockLedgerEventRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewAdViewService(accountRepo, eventRepo, ledger)

		accountRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(account(), nil)
		eventRepo.On("CountAdViewsSince", ctx, int64(1), mock.Anything).Return(int64(5), nil)
		ledger.On("Credit", ctx, int64(1), AdMainPoints, entities.EventKindAdMainCredit, mock.Anything).Return(int64(14), nil)

		result, err := svc.CreditAdView(ctx, 1, "main")
		require.NoError(t, err)
		assert.Equal(t, AdMainPoints, result.PointsAdded)
		assert.Equal(t, int64(14), result.NewBalance)
		assert.Equal(t, int64(6), result.DailyAdsWatched)
	})

	t.Run("side and low ads credit their own values", func(t *testing.T) {
		for adType, want := range map[string]struct {
			points int64
			kind   entities.EventKind
		}{
			"side": {AdSidePoints, entities.EventKindAdSideCredit},
			"low":  {AdLowPoints, entities.EventKindAdLowCredit},
		} {
			accountRepo := new(testhelpers.MockAccountRepository)
			eventRepo := new(testhelpers.MockLedgerEventRepository)
			ledger := new(testhelpers.MockLedgerService)
			svc := NewAdViewService(accountRepo, eventRepo, ledger)

			accountRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(account(), nil)
			eventRepo.On("CountAdViewsSince", ctx, int64(1), mock.Anything).Return(int64(0), nil)
			ledger.On("Credit", ctx, int64(1), want.points, want.kind, mock.Anything).Return(int64(10)+want.points, nil)

			result, err := svc.CreditAdView(ctx, 1, adType)
			require.NoError(t, err, "ad type %s", adType)
			assert.Equal(t, want.points, result.PointsAdded)
			ledger.AssertExpectations(t)
		}
	})

	t.Run("cap reached rejects without credit", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		eventRepo := new(testhelpers.MockLedgerEventRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewAdViewService(accountRepo, eventRepo, ledger)

		accountRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(account(), nil)
		eventRepo.On("CountAdViewsSince", ctx, int64(1), mock.Anything).Return(DailyAdCap, nil)

		_, err := svc.CreditAdView(ctx, 1, "main")
		assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("last view under the cap is allowed", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		eventRepo := new(testhelpers.MockLedgerEventRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewAdViewService(accountRepo, eventRepo, ledger)

		accountRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(account(), nil)
		eventRepo.On("CountAdViewsSince", ctx, int64(1), mock.Anything).Return(DailyAdCap-1, nil)
		ledger.On("Credit", ctx, int64(1), AdMainPoints, entities.EventKindAdMainCredit, mock.Anything).Return(int64(14), nil)

		result, err := svc.CreditAdView(ctx, 1, "main")
		require.NoError(t, err)
		assert.Equal(t, DailyAdCap, result.DailyAdsWatched)
	})

	t.Run("unknown ad type rejected before locking", func(t *testing.T) {
		accountRepo := new(testhelpers.MockAccountRepository)
		svc := NewAdViewService(accountRepo, new(testhelpers.MockLedgerEventRepository), new(testhelpers.MockLedgerService))

		_, err := svc.CreditAdView(ctx, 1, "banner")
		assert.True(t, domain.IsValidationError(err))
		accountRepo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
	})
}
