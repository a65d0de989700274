package repository

import (
	"context"
	"fmt"

	"adsbot/database"
	"adsbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

const withdrawalColumns = `id, account_id, tokens, points_debited, address, status, created_at, updated_at`

// WithdrawalRepository implements withdrawal request data access
type WithdrawalRepository struct {
	q Queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository bound to a transaction
func newWithdrawalRepositoryWithTx(tx Queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create inserts a new pending withdrawal
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *entities.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (account_id, tokens, points_debited, address, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		withdrawal.AccountID,
		withdrawal.Tokens,
		withdrawal.PointsDebited,
		withdrawal.Address,
		withdrawal.Status,
	).Scan(&withdrawal.ID, &withdrawal.CreatedAt, &withdrawal.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create withdrawal for account %d: %w", withdrawal.AccountID, err)
	}

	return nil
}

// GetByIDForUpdate retrieves a withdrawal with an exclusive row lock
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1 FOR UPDATE`

	var w entities.Withdrawal
	err := r.q.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.AccountID,
		&w.Tokens,
		&w.PointsDebited,
		&w.Address,
		&w.Status,
		&w.CreatedAt,
		&w.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal %d: %w", id, err)
	}

	return &w, nil
}

// UpdateStatus sets a withdrawal's terminal status
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id int64, status entities.WithdrawalStatus) error {
	query := `
		UPDATE withdrawals
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for withdrawal %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal with ID %d not found", id)
	}

	return nil
}

// ListByAccount returns an account's withdrawals, newest first
func (r *WithdrawalRepository) ListByAccount(ctx context.Context, accountID int64) ([]*entities.Withdrawal, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawals
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals for account %d: %w", accountID, err)
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// ListPending returns all pending withdrawals, oldest first
func (r *WithdrawalRepository) ListPending(ctx context.Context) ([]*entities.Withdrawal, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawals
		WHERE status = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, entities.WithdrawalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

func scanWithdrawals(rows pgx.Rows) ([]*entities.Withdrawal, error) {
	var withdrawals []*entities.Withdrawal
	for rows.Next() {
		var w entities.Withdrawal
		err := rows.Scan(
			&w.ID,
			&w.AccountID,
			&w.Tokens,
			&w.PointsDebited,
			&w.Address,
			&w.Status,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawals: %w", err)
	}

	return withdrawals, nil
}
