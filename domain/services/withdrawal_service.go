package services

import (
	"context"
	"fmt"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// withdrawalService manages the pending -> approved|rejected lifecycle.
// Points are held at creation and refunded only on rejection; the exclusive
// row lock on the withdrawal at transition time is what prevents concurrent
// approve/reject or a double refund.
type withdrawalService struct {
	accountRepo    interfaces.AccountRepository
	withdrawalRepo interfaces.WithdrawalRepository
	ledger         interfaces.LedgerService
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(
	accountRepo interfaces.AccountRepository,
	withdrawalRepo interfaces.WithdrawalRepository,
	ledger interfaces.LedgerService,
) interfaces.WithdrawalService {
	return &withdrawalService{
		accountRepo:    accountRepo,
		withdrawalRepo: withdrawalRepo,
		ledger:         ledger,
	}
}

// Create validates the request, holds the points and inserts a pending row
func (s *withdrawalService) Create(ctx context.Context, accountID, tokensRequested int64, address *string) (*entities.Withdrawal, error) {
	if tokensRequested < MinWithdrawTokens {
		return nil, domain.NewValidationError("tokens", fmt.Sprintf("minimum withdrawal is %d tokens", MinWithdrawTokens))
	}
	if address != nil && len(*address) > 200 {
		return nil, domain.NewValidationError("address", "must be at most 200 characters")
	}
	pointsNeeded := tokensRequested * WithdrawRatio

	// The account lock is held across the whole read-verify-debit sequence
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	if !account.HasSufficientBalance(pointsNeeded) {
		return nil, domain.ErrInsufficientPoints
	}

	if _, err := s.ledger.Debit(ctx, accountID, pointsNeeded, entities.EventKindWithdrawalHold, map[string]any{
		"tokens":  tokensRequested,
		"address": address,
	}); err != nil {
		return nil, err
	}

	withdrawal := &entities.Withdrawal{
		AccountID:     accountID,
		Tokens:        tokensRequested,
		PointsDebited: pointsNeeded,
		Address:       address,
		Status:        entities.WithdrawalStatusPending,
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	log.WithFields(log.Fields{
		"account_id":    accountID,
		"withdrawal_id": withdrawal.ID,
		"tokens":        tokensRequested,
		"points":        pointsNeeded,
	}).Info("withdrawal requested")

	return withdrawal, nil
}

// Approve transitions a pending withdrawal to approved. Funds were already
// held at creation, so no balance change occurs.
func (s *withdrawalService) Approve(ctx context.Context, id int64) (*entities.Withdrawal, error) {
	withdrawal, err := s.lockPending(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.withdrawalRepo.UpdateStatus(ctx, id, entities.WithdrawalStatusApproved); err != nil {
		return nil, fmt.Errorf("failed to approve withdrawal %d: %w", id, err)
	}
	withdrawal.Status = entities.WithdrawalStatusApproved

	log.WithField("withdrawal_id", id).Info("withdrawal approved")
	return withdrawal, nil
}

// Reject refunds exactly the held points and transitions to rejected
func (s *withdrawalService) Reject(ctx context.Context, id int64, reason string) (*entities.Withdrawal, error) {
	withdrawal, err := s.lockPending(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.Credit(ctx, withdrawal.AccountID, withdrawal.PointsDebited, entities.EventKindWithdrawalRefund, map[string]any{
		"withdrawal_id": id,
		"reason":        reason,
	}); err != nil {
		return nil, err
	}

	if err := s.withdrawalRepo.UpdateStatus(ctx, id, entities.WithdrawalStatusRejected); err != nil {
		return nil, fmt.Errorf("failed to reject withdrawal %d: %w", id, err)
	}
	withdrawal.Status = entities.WithdrawalStatusRejected

	log.WithFields(log.Fields{
		"withdrawal_id": id,
		"reason":        reason,
	}).Info("withdrawal rejected")
	return withdrawal, nil
}

// ListByAccount returns an account's withdrawals, newest first
func (s *withdrawalService) ListByAccount(ctx context.Context, accountID int64) ([]*entities.Withdrawal, error) {
	return s.withdrawalRepo.ListByAccount(ctx, accountID)
}

// ListPending returns all pending withdrawals, oldest first
func (s *withdrawalService) ListPending(ctx context.Context) ([]*entities.Withdrawal, error) {
	return s.withdrawalRepo.ListPending(ctx)
}

// lockPending loads a withdrawal with an exclusive row lock and verifies it
// can still transition
func (s *withdrawalService) lockPending(ctx context.Context, id int64) (*entities.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock withdrawal %d: %w", id, err)
	}
	if withdrawal == nil {
		return nil, domain.ErrNotFound
	}
	if !withdrawal.IsPending() {
		return nil, domain.ErrNotPending
	}
	return withdrawal, nil
}
