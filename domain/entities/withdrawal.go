package entities

import "time"

// WithdrawalStatus represents the lifecycle state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal represents a token redemption request. Points are debited (held)
// at creation; PointsDebited never changes afterwards. Status transitions are
// one-way: pending -> approved or pending -> rejected, both terminal.
type Withdrawal struct {
	ID            int64            `db:"id"`
	AccountID     int64            `db:"account_id"`
	Tokens        int64            `db:"tokens"`
	PointsDebited int64            `db:"points_debited"`
	Address       *string          `db:"address"`
	Status        WithdrawalStatus `db:"status"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

// IsPending returns true if the withdrawal can still transition
func (w *Withdrawal) IsPending() bool {
	return w.Status == WithdrawalStatusPending
}

// IsTerminal returns true if the withdrawal has reached a final state
func (w *Withdrawal) IsTerminal() bool {
	return w.Status == WithdrawalStatusApproved || w.Status == WithdrawalStatusRejected
}

// String returns the string representation of the status
func (s WithdrawalStatus) String() string {
	return string(s)
}
