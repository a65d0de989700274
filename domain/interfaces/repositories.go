package interfaces

import (
	"context"
	"time"

	"adsbot/domain/entities"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its internal ID
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// GetByExternalID retrieves an account by its stable external identifier
	GetByExternalID(ctx context.Context, externalID string) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account with an exclusive row lock held
	// until the enclosing transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error)

	// GetOrCreate looks up or inserts an account by external identifier.
	// A non-empty username updates the stored one; an empty username never
	// clears it.
	GetOrCreate(ctx context.Context, externalID, username string) (*entities.Account, error)

	// UpdateBalance sets an account's balance
	UpdateBalance(ctx context.Context, id int64, newBalance int64) error

	// SetInviter sets the invitee's inviter reference only if it is currently
	// unset. Returns false when another claim already won.
	SetInviter(ctx context.Context, inviteeID, inviterID int64) (bool, error)

	// ClaimReferralBonus flips the one-shot referral bonus flag. Returns false
	// if the bonus was already claimed.
	ClaimReferralBonus(ctx context.Context, id int64) (bool, error)
}

// LedgerEventRepository defines the interface for the append-only event ledger
type LedgerEventRepository interface {
	// Append inserts a new ledger event; events are never updated or deleted
	Append(ctx context.Context, event *entities.LedgerEvent) error

	// GetByAccount returns the most recent events for an account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEvent, error)

	// SumDeltas returns the sum of all event deltas for an account
	SumDeltas(ctx context.Context, accountID int64) (int64, error)

	// CountAdViewsSince counts ad credit events created at or after a time
	CountAdViewsSince(ctx context.Context, accountID int64, since time.Time) (int64, error)

	// HasTaskCredit reports whether a task credit with the given task id was
	// already recorded for the account
	HasTaskCredit(ctx context.Context, accountID int64, taskID string) (bool, error)
}

// ReferralRepository defines the interface for referral attribution records
type ReferralRepository interface {
	// Create inserts the unique (inviter, invitee) pair. A conflict on the
	// invitee is a no-op; exclusivity is proven by the account's conditional
	// inviter update, not by this insert.
	Create(ctx context.Context, inviterID, inviteeID int64) error

	// CountByInviter returns the number of invitees attributed to an inviter
	CountByInviter(ctx context.Context, inviterID int64) (int64, error)

	// ListByInviter returns the invitees attributed to an inviter
	ListByInviter(ctx context.Context, inviterID int64) ([]*entities.ReferralDetail, error)
}

// LotteryTicketRepository defines the interface for ticket purchase records
type LotteryTicketRepository interface {
	// Create inserts an immutable ticket purchase record
	Create(ctx context.Context, ticket *entities.LotteryTicket) error

	// GetParticipantsForPeriod aggregates ticket counts per account for a
	// calendar month, ordered by account id
	GetParticipantsForPeriod(ctx context.Context, period string) ([]*entities.LotteryParticipant, error)

	// TotalTicketsByAccount returns the all-time ticket total for an account
	TotalTicketsByAccount(ctx context.Context, accountID int64) (int64, error)
}

// LotteryDrawRepository defines the interface for completed draw records
type LotteryDrawRepository interface {
	// Create persists the draw for a period. The period is unique at the
	// store level; a second insert for the same period fails.
	Create(ctx context.Context, draw *entities.LotteryDraw) error

	// GetByPeriod retrieves the draw for a period, or nil if none exists
	GetByPeriod(ctx context.Context, period string) (*entities.LotteryDraw, error)
}

// WithdrawalRepository defines the interface for withdrawal requests
type WithdrawalRepository interface {
	// Create inserts a new pending withdrawal
	Create(ctx context.Context, withdrawal *entities.Withdrawal) error

	// GetByIDForUpdate retrieves a withdrawal with an exclusive row lock held
	// until the enclosing transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Withdrawal, error)

	// UpdateStatus sets a withdrawal's terminal status
	UpdateStatus(ctx context.Context, id int64, status entities.WithdrawalStatus) error

	// ListByAccount returns an account's withdrawals, newest first
	ListByAccount(ctx context.Context, accountID int64) ([]*entities.Withdrawal, error)

	// ListPending returns all pending withdrawals, oldest first
	ListPending(ctx context.Context) ([]*entities.Withdrawal, error)
}

// UnitOfWork provides transactional access to all repositories. Every core
// operation runs inside exactly one unit: all repository calls between Begin
// and Commit share one database transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() AccountRepository
	LedgerEventRepository() LedgerEventRepository
	ReferralRepository() ReferralRepository
	LotteryTicketRepository() LotteryTicketRepository
	LotteryDrawRepository() LotteryDrawRepository
	WithdrawalRepository() WithdrawalRepository
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
