package repository

import (
	"context"
	"fmt"

	"adsbot/database"
	"adsbot/domain/entities"
)

// LotteryTicketRepository implements ticket purchase data access
type LotteryTicketRepository struct {
	q Queryable
}

// NewLotteryTicketRepository creates a new lottery ticket repository
func NewLotteryTicketRepository(db *database.DB) *LotteryTicketRepository {
	return &LotteryTicketRepository{q: db.Pool}
}

// newLotteryTicketRepositoryWithTx creates a new lottery ticket repository bound to a transaction
func newLotteryTicketRepositoryWithTx(tx Queryable) *LotteryTicketRepository {
	return &LotteryTicketRepository{q: tx}
}

// Create inserts an immutable ticket purchase record
func (r *LotteryTicketRepository) Create(ctx context.Context, ticket *entities.LotteryTicket) error {
	query := `
		INSERT INTO lottery_tickets (account_id, ticket_count, points_spent)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.AccountID,
		ticket.TicketCount,
		ticket.PointsSpent,
	).Scan(&ticket.ID, &ticket.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lottery ticket for account %d: %w", ticket.AccountID, err)
	}

	return nil
}

// GetParticipantsForPeriod aggregates ticket counts per account for a
// calendar month, ordered by account id so range assignment is deterministic
func (r *LotteryTicketRepository) GetParticipantsForPeriod(ctx context.Context, period string) ([]*entities.LotteryParticipant, error) {
	query := `
		SELECT lt.account_id, a.external_id, a.username, SUM(lt.ticket_count) AS tickets
		FROM lottery_tickets lt
		JOIN accounts a ON a.id = lt.account_id
		WHERE TO_CHAR(lt.created_at AT TIME ZONE 'UTC', 'YYYY-MM') = $1
		GROUP BY lt.account_id, a.external_id, a.username
		HAVING SUM(lt.ticket_count) > 0
		ORDER BY lt.account_id ASC
	`

	rows, err := r.q.Query(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants for period %s: %w", period, err)
	}
	defer rows.Close()

	var participants []*entities.LotteryParticipant
	for rows.Next() {
		var p entities.LotteryParticipant
		err := rows.Scan(&p.AccountID, &p.ExternalID, &p.Username, &p.Tickets)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery participant: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lottery participants: %w", err)
	}

	return participants, nil
}

// TotalTicketsByAccount returns the all-time ticket total for an account
func (r *LotteryTicketRepository) TotalTicketsByAccount(ctx context.Context, accountID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(ticket_count), 0) FROM lottery_tickets WHERE account_id = $1`

	var total int64
	err := r.q.QueryRow(ctx, query, accountID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to total tickets for account %d: %w", accountID, err)
	}

	return total, nil
}
