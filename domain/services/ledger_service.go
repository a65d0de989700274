package services

import (
	"context"
	"fmt"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// ledgerService implements atomic balance mutations against the shared store.
// Callers run it inside a unit of work; the account row lock taken by
// GetByIDForUpdate serializes concurrent mutations for the same account.
type ledgerService struct {
	accountRepo interfaces.AccountRepository
	eventRepo   interfaces.LedgerEventRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(accountRepo interfaces.AccountRepository, eventRepo interfaces.LedgerEventRepository) interfaces.LedgerService {
	return &ledgerService{
		accountRepo: accountRepo,
		eventRepo:   eventRepo,
	}
}

// Credit increases the balance unconditionally and appends a positive event
func (s *ledgerService) Credit(ctx context.Context, accountID, amount int64, kind entities.EventKind, meta map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, domain.NewValidationError("amount", "must be positive")
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	if account == nil {
		return 0, domain.ErrNotFound
	}

	newBalance := account.CalculateNewBalance(amount)
	if err := s.accountRepo.UpdateBalance(ctx, accountID, newBalance); err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	if err := s.appendEvent(ctx, accountID, amount, kind, meta); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"account_id": accountID,
		"kind":       kind,
		"amount":     amount,
		"balance":    newBalance,
	}).Debug("credited account")

	return newBalance, nil
}

// Debit verifies sufficient balance, decreases it and appends a negative event
func (s *ledgerService) Debit(ctx context.Context, accountID, amount int64, kind entities.EventKind, meta map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, domain.NewValidationError("amount", "must be positive")
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	if account == nil {
		return 0, domain.ErrNotFound
	}

	if !account.HasSufficientBalance(amount) {
		return 0, domain.ErrInsufficientBalance
	}

	newBalance := account.CalculateNewBalance(-amount)
	if err := s.accountRepo.UpdateBalance(ctx, accountID, newBalance); err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	if err := s.appendEvent(ctx, accountID, -amount, kind, meta); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"account_id": accountID,
		"kind":       kind,
		"amount":     amount,
		"balance":    newBalance,
	}).Debug("debited account")

	return newBalance, nil
}

func (s *ledgerService) appendEvent(ctx context.Context, accountID, delta int64, kind entities.EventKind, meta map[string]any) error {
	event := &entities.LedgerEvent{
		AccountID: accountID,
		Kind:      kind,
		Delta:     delta,
		Metadata:  meta,
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid ledger event: %w", err)
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append ledger event: %w", err)
	}
	return nil
}
