package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"adsbot/database"
	"adsbot/domain"
	"adsbot/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// LotteryDrawRepository implements completed draw data access
type LotteryDrawRepository struct {
	q Queryable
}

// NewLotteryDrawRepository creates a new lottery draw repository
func NewLotteryDrawRepository(db *database.DB) *LotteryDrawRepository {
	return &LotteryDrawRepository{q: db.Pool}
}

// newLotteryDrawRepositoryWithTx creates a new lottery draw repository bound to a transaction
func newLotteryDrawRepositoryWithTx(tx Queryable) *LotteryDrawRepository {
	return &LotteryDrawRepository{q: tx}
}

// Create persists the draw for a period. The unique constraint on period
// makes the second concurrent insert fail with ErrDrawAlreadyConducted.
func (r *LotteryDrawRepository) Create(ctx context.Context, draw *entities.LotteryDraw) error {
	winnersJSON, err := json.Marshal(draw.Winners)
	if err != nil {
		return fmt.Errorf("failed to marshal draw winners: %w", err)
	}

	query := `
		INSERT INTO lottery_draws (period, total_tickets, total_participants, winners)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		draw.Period,
		draw.TotalTickets,
		draw.TotalParticipants,
		winnersJSON,
	).Scan(&draw.ID, &draw.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDrawAlreadyConducted
		}
		return fmt.Errorf("failed to create lottery draw for period %s: %w", draw.Period, err)
	}

	return nil
}

// GetByPeriod retrieves the draw for a period, or nil if none exists
func (r *LotteryDrawRepository) GetByPeriod(ctx context.Context, period string) (*entities.LotteryDraw, error) {
	query := `
		SELECT id, period, total_tickets, total_participants, winners, created_at
		FROM lottery_draws
		WHERE period = $1
	`

	var draw entities.LotteryDraw
	var winnersJSON []byte

	err := r.q.QueryRow(ctx, query, period).Scan(
		&draw.ID,
		&draw.Period,
		&draw.TotalTickets,
		&draw.TotalParticipants,
		&winnersJSON,
		&draw.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery draw for period %s: %w", period, err)
	}

	if len(winnersJSON) > 0 {
		if err := json.Unmarshal(winnersJSON, &draw.Winners); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draw winners: %w", err)
		}
	}

	return &draw, nil
}
