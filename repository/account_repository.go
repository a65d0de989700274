package repository

import (
	"context"
	"fmt"

	"adsbot/database"
	"adsbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, external_id, username, balance, referred_by, referral_claimed, created_at, updated_at`

// AccountRepository implements account data access
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository bound to a transaction
func newAccountRepositoryWithTx(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByID retrieves an account by its internal ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByExternalID retrieves an account by its stable external identifier
func (r *AccountRepository) GetByExternalID(ctx context.Context, externalID string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE external_id = $1`
	return r.scanOne(ctx, query, externalID)
}

// GetByIDForUpdate retrieves an account with an exclusive row lock
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// GetOrCreate looks up or inserts an account by external identifier. A
// non-empty username replaces the stored one; an empty username is ignored.
func (r *AccountRepository) GetOrCreate(ctx context.Context, externalID, username string) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (external_id, username)
		VALUES ($1, $2)
		ON CONFLICT (external_id)
		DO UPDATE SET
			username = CASE WHEN EXCLUDED.username <> '' THEN EXCLUDED.username ELSE accounts.username END,
			updated_at = NOW()
		RETURNING ` + accountColumns

	var account entities.Account
	err := r.q.QueryRow(ctx, query, externalID, username).Scan(
		&account.ID,
		&account.ExternalID,
		&account.Username,
		&account.Balance,
		&account.ReferredBy,
		&account.ReferralClaimed,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create account %s: %w", externalID, err)
	}

	return &account, nil
}

// UpdateBalance sets an account's balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.q.Exec(ctx, query, newBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account with ID %d not found", id)
	}

	return nil
}

// SetInviter sets the invitee's inviter reference only if currently unset.
// Affecting zero rows means a concurrent claim already won.
func (r *AccountRepository) SetInviter(ctx context.Context, inviteeID, inviterID int64) (bool, error) {
	query := `
		UPDATE accounts
		SET referred_by = $1, updated_at = NOW()
		WHERE id = $2 AND referred_by IS NULL
	`
	result, err := r.q.Exec(ctx, query, inviterID, inviteeID)
	if err != nil {
		return false, fmt.Errorf("failed to set inviter for account %d: %w", inviteeID, err)
	}

	return result.RowsAffected() > 0, nil
}

// ClaimReferralBonus flips the one-shot bonus flag if it is still unclaimed
func (r *AccountRepository) ClaimReferralBonus(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE accounts
		SET referral_claimed = TRUE, updated_at = NOW()
		WHERE id = $1 AND referral_claimed = FALSE
	`
	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim referral bonus for account %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *AccountRepository) scanOne(ctx context.Context, query string, args ...any) (*entities.Account, error) {
	var account entities.Account
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&account.ID,
		&account.ExternalID,
		&account.Username,
		&account.Balance,
		&account.ReferredBy,
		&account.ReferralClaimed,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}
