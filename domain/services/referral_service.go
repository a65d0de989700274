package services

import (
	"context"
	"fmt"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// referralService implements the idempotent referral attribution protocol.
// The conditional inviter update is the correctness guard against concurrent
// duplicate claims; the earlier read is only a fast path.
type referralService struct {
	accountRepo  interfaces.AccountRepository
	referralRepo interfaces.ReferralRepository
	ledger       interfaces.LedgerService
}

// NewReferralService creates a new referral service
func NewReferralService(
	accountRepo interfaces.AccountRepository,
	referralRepo interfaces.ReferralRepository,
	ledger interfaces.LedgerService,
) interfaces.ReferralService {
	return &referralService{
		accountRepo:  accountRepo,
		referralRepo: referralRepo,
		ledger:       ledger,
	}
}

// GetOrCreateAccount is an idempotent lookup-or-insert, safe to call repeatedly
func (s *referralService) GetOrCreateAccount(ctx context.Context, externalID, username string) (*entities.Account, error) {
	if externalID == "" {
		return nil, domain.NewValidationError("external_id", "must not be empty")
	}
	account, err := s.accountRepo.GetOrCreate(ctx, externalID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create account %s: %w", externalID, err)
	}
	return account, nil
}

// AwardReferral resolves both accounts and credits the relationship exactly once
func (s *referralService) AwardReferral(ctx context.Context, inviterExternalID, inviteeExternalID string) (*interfaces.ReferralResult, error) {
	inviter, err := s.GetOrCreateAccount(ctx, inviterExternalID, "")
	if err != nil {
		return nil, err
	}
	invitee, err := s.GetOrCreateAccount(ctx, inviteeExternalID, "")
	if err != nil {
		return nil, err
	}

	if inviter.ID == invitee.ID {
		return nil, domain.ErrSelfReferral
	}

	// Fast path; the conditional update below is the real guard
	if invitee.IsReferred() {
		return nil, domain.ErrAlreadyReferred
	}

	claimed, err := s.accountRepo.SetInviter(ctx, invitee.ID, inviter.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to set inviter: %w", err)
	}
	if !claimed {
		// A concurrent claim won the race
		return nil, domain.ErrAlreadyReferred
	}

	if err := s.referralRepo.Create(ctx, inviter.ID, invitee.ID); err != nil {
		return nil, fmt.Errorf("failed to record referral: %w", err)
	}

	if _, err := s.ledger.Credit(ctx, inviter.ID, InviterBonusPoints, entities.EventKindReferralBonus, map[string]any{
		"invitee_external_id": inviteeExternalID,
	}); err != nil {
		return nil, fmt.Errorf("failed to credit inviter: %w", err)
	}

	result := &interfaces.ReferralResult{
		InviterID:    inviter.ID,
		InviteeID:    invitee.ID,
		InviterBonus: InviterBonusPoints,
	}

	// The invitee bonus is one-shot across all referral paths; the flag flip
	// and the credit share the transaction so a concurrent award cannot
	// double-credit.
	bonusClaimed, err := s.accountRepo.ClaimReferralBonus(ctx, invitee.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim invitee bonus: %w", err)
	}
	if bonusClaimed {
		if _, err := s.ledger.Credit(ctx, invitee.ID, InviteeBonusPoints, entities.EventKindReferralBonus, map[string]any{
			"inviter_external_id": inviterExternalID,
		}); err != nil {
			return nil, fmt.Errorf("failed to credit invitee: %w", err)
		}
		result.InviteeBonus = InviteeBonusPoints
		result.InviteeCredited = true
	}

	log.WithFields(log.Fields{
		"inviter_id": inviter.ID,
		"invitee_id": invitee.ID,
	}).Info("referral awarded")

	return result, nil
}

// ListReferrals returns the invitees attributed to an inviter account
func (s *referralService) ListReferrals(ctx context.Context, inviterID int64) ([]*entities.ReferralDetail, error) {
	details, err := s.referralRepo.ListByInviter(ctx, inviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals for account %d: %w", inviterID, err)
	}
	return details, nil
}
