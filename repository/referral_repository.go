package repository

import (
	"context"
	"fmt"

	"adsbot/database"
	"adsbot/domain/entities"
)

// ReferralRepository implements referral attribution data access
type ReferralRepository struct {
	q Queryable
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

// newReferralRepositoryWithTx creates a new referral repository bound to a transaction
func newReferralRepositoryWithTx(tx Queryable) *ReferralRepository {
	return &ReferralRepository{q: tx}
}

// Create inserts the unique (inviter, invitee) pair. A conflict on the
// invitee is a no-op: the conditional inviter update already proved
// exclusivity before this insert runs.
func (r *ReferralRepository) Create(ctx context.Context, inviterID, inviteeID int64) error {
	query := `
		INSERT INTO referrals (inviter_id, invitee_id)
		VALUES ($1, $2)
		ON CONFLICT (invitee_id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, inviterID, inviteeID); err != nil {
		return fmt.Errorf("failed to create referral %d -> %d: %w", inviterID, inviteeID, err)
	}

	return nil
}

// CountByInviter returns the number of invitees attributed to an inviter
func (r *ReferralRepository) CountByInviter(ctx context.Context, inviterID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM referrals WHERE inviter_id = $1`

	var count int64
	err := r.q.QueryRow(ctx, query, inviterID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals for inviter %d: %w", inviterID, err)
	}

	return count, nil
}

// ListByInviter returns the invitees attributed to an inviter, newest first
func (r *ReferralRepository) ListByInviter(ctx context.Context, inviterID int64) ([]*entities.ReferralDetail, error) {
	query := `
		SELECT r.invitee_id, a.external_id, a.username, r.created_at
		FROM referrals r
		JOIN accounts a ON a.id = r.invitee_id
		WHERE r.inviter_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.q.Query(ctx, query, inviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals for inviter %d: %w", inviterID, err)
	}
	defer rows.Close()

	var details []*entities.ReferralDetail
	for rows.Next() {
		var d entities.ReferralDetail
		err := rows.Scan(&d.InviteeID, &d.InviteeExternalID, &d.InviteeUsername, &d.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan referral detail: %w", err)
		}
		details = append(details, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate referrals: %w", err)
	}

	return details, nil
}
