package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adsbot/database"
	"adsbot/domain/entities"
)

// LedgerEventRepository implements the append-only event ledger
type LedgerEventRepository struct {
	q Queryable
}

// NewLedgerEventRepository creates a new ledger event repository
func NewLedgerEventRepository(db *database.DB) *LedgerEventRepository {
	return &LedgerEventRepository{q: db.Pool}
}

// newLedgerEventRepositoryWithTx creates a new ledger event repository bound to a transaction
func newLedgerEventRepositoryWithTx(tx Queryable) *LedgerEventRepository {
	return &LedgerEventRepository{q: tx}
}

// Append inserts a new ledger event; events are never updated or deleted
func (r *LedgerEventRepository) Append(ctx context.Context, event *entities.LedgerEvent) error {
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_events (account_id, kind, delta, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		event.AccountID,
		event.Kind,
		event.Delta,
		metadataJSON,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append ledger event for account %d: %w", event.AccountID, err)
	}

	return nil
}

// GetByAccount returns the most recent events for an account
func (r *LedgerEventRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEvent, error) {
	query := `
		SELECT id, account_id, kind, delta, metadata, created_at
		FROM ledger_events
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger events for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var events []*entities.LedgerEvent
	for rows.Next() {
		var event entities.LedgerEvent
		var metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.AccountID,
			&event.Kind,
			&event.Delta,
			&metadataJSON,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger event: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
			}
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger events: %w", err)
	}

	return events, nil
}

// SumDeltas returns the sum of all event deltas for an account
func (r *LedgerEventRepository) SumDeltas(ctx context.Context, accountID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(delta), 0) FROM ledger_events WHERE account_id = $1`

	var sum int64
	err := r.q.QueryRow(ctx, query, accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum deltas for account %d: %w", accountID, err)
	}

	return sum, nil
}

// CountAdViewsSince counts ad credit events created at or after a time
func (r *LedgerEventRepository) CountAdViewsSince(ctx context.Context, accountID int64, since time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM ledger_events
		WHERE account_id = $1
		  AND kind = ANY($2)
		  AND created_at >= $3
	`

	kinds := entities.AdEventKinds()
	kindStrings := make([]string, len(kinds))
	for i, k := range kinds {
		kindStrings[i] = k.String()
	}

	var count int64
	err := r.q.QueryRow(ctx, query, accountID, kindStrings, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ad views for account %d: %w", accountID, err)
	}

	return count, nil
}

// HasTaskCredit reports whether a task credit with the given task id exists
func (r *LedgerEventRepository) HasTaskCredit(ctx context.Context, accountID int64, taskID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ledger_events
			WHERE account_id = $1
			  AND kind = $2
			  AND metadata->>'task_id' = $3
		)
	`

	var exists bool
	err := r.q.QueryRow(ctx, query, accountID, entities.EventKindTaskCredit, taskID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check task credit for account %d: %w", accountID, err)
	}

	return exists, nil
}
