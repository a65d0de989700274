package services

import (
	"context"
	"fmt"
	"time"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"
)

// adViewService credits ad views subject to the per-day quota. The account
// row lock is taken before counting, so the count-then-credit sequence is
// serialized per account and the cap is strict.
type adViewService struct {
	accountRepo interfaces.AccountRepository
	eventRepo   interfaces.LedgerEventRepository
	ledger      interfaces.LedgerService
}

// NewAdViewService creates a new ad view service
func NewAdViewService(
	accountRepo interfaces.AccountRepository,
	eventRepo interfaces.LedgerEventRepository,
	ledger interfaces.LedgerService,
) interfaces.AdViewService {
	return &adViewService{
		accountRepo: accountRepo,
		eventRepo:   eventRepo,
		ledger:      ledger,
	}
}

// CreditAdView credits the fixed value for an ad type within the daily cap
func (s *adViewService) CreditAdView(ctx context.Context, accountID int64, adType string) (*interfaces.AdCreditResult, error) {
	points, ok := AdPointValue(adType)
	if !ok {
		return nil, domain.NewValidationError("ad_type", "must be one of main, side, low")
	}

	// Lock, then read, then decide, then write. Counting after the lock keeps
	// the quota exact under concurrent credits for the same account.
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}

	startOfDay := startOfCurrentDay()
	watched, err := s.eventRepo.CountAdViewsSince(ctx, accountID, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to count ad views: %w", err)
	}
	if watched >= DailyAdCap {
		return nil, domain.ErrRateLimitExceeded
	}

	newBalance, err := s.ledger.Credit(ctx, accountID, points, kindForAdType(adType), map[string]any{
		"ad_type": adType,
	})
	if err != nil {
		return nil, err
	}

	return &interfaces.AdCreditResult{
		PointsAdded:     points,
		NewBalance:      newBalance,
		DailyAdsWatched: watched + 1,
	}, nil
}

func kindForAdType(adType string) entities.EventKind {
	switch adType {
	case "main":
		return entities.EventKindAdMainCredit
	case "side":
		return entities.EventKindAdSideCredit
	default:
		return entities.EventKindAdLowCredit
	}
}

// startOfCurrentDay returns midnight UTC of the current calendar day
func startOfCurrentDay() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
