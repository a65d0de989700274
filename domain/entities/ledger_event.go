package entities

import (
	"errors"
	"time"
)

// LedgerEvent represents a single append-only balance change.
// For every account the sum of all deltas equals the current balance.
type LedgerEvent struct {
	ID        int64          `db:"id"`
	AccountID int64          `db:"account_id"`
	Kind      EventKind      `db:"kind"`
	Delta     int64          `db:"delta"`
	Metadata  map[string]any `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
}

// IsPositive returns true if the delta is positive
func (e *LedgerEvent) IsPositive() bool {
	return e.Delta > 0
}

// IsNegative returns true if the delta is negative
func (e *LedgerEvent) IsNegative() bool {
	return e.Delta < 0
}

// Validate performs basic consistency checks before the event is appended
func (e *LedgerEvent) Validate() error {
	if e.Delta == 0 {
		return errors.New("delta cannot be zero")
	}
	if e.Kind.IsCredit() && e.Delta < 0 {
		return errors.New("credit kind cannot carry a negative delta")
	}
	if e.Kind.IsDebit() && e.Delta > 0 {
		return errors.New("debit kind cannot carry a positive delta")
	}
	return nil
}
