package interfaces

import (
	"context"

	"adsbot/domain/entities"
)

// NumberSource yields uniformly distributed random integers for the draw
// engine. It is injected so tests can supply deterministic sequences.
type NumberSource interface {
	// Int64N returns a uniform random integer in [0, max)
	Int64N(max int64) (int64, error)
}

// LedgerService performs atomic balance mutations with an audit event per change
type LedgerService interface {
	// Credit increases the account balance and appends a positive-delta event.
	// Returns the new balance.
	Credit(ctx context.Context, accountID, amount int64, kind entities.EventKind, meta map[string]any) (int64, error)

	// Debit verifies sufficient balance, decreases it and appends a
	// negative-delta event. Returns the new balance.
	Debit(ctx context.Context, accountID, amount int64, kind entities.EventKind, meta map[string]any) (int64, error)
}

// ReferralResult is the outcome of a successful referral attribution
type ReferralResult struct {
	InviterID       int64
	InviteeID       int64
	InviterBonus    int64
	InviteeBonus    int64
	InviteeCredited bool
}

// ReferralService resolves accounts and credits referral relationships exactly once
type ReferralService interface {
	// GetOrCreateAccount is an idempotent lookup-or-insert by external id
	GetOrCreateAccount(ctx context.Context, externalID, username string) (*entities.Account, error)

	// AwardReferral attributes invitee to inviter and credits both bonuses
	AwardReferral(ctx context.Context, inviterExternalID, inviteeExternalID string) (*ReferralResult, error)

	// ListReferrals returns the invitees attributed to an inviter account
	ListReferrals(ctx context.Context, inviterID int64) ([]*entities.ReferralDetail, error)
}

// AdCreditResult is the outcome of a successful ad view credit
type AdCreditResult struct {
	PointsAdded     int64
	NewBalance      int64
	DailyAdsWatched int64
}

// AdViewService credits ad views subject to the per-day quota
type AdViewService interface {
	// CreditAdView credits the fixed value for an ad type, or fails with
	// ErrRateLimitExceeded once the daily cap is reached
	CreditAdView(ctx context.Context, accountID int64, adType string) (*AdCreditResult, error)
}

// TaskService credits one-time task completions
type TaskService interface {
	// CompleteTask credits the task reward once per (account, task) pair
	CompleteTask(ctx context.Context, accountID int64, taskID string) (int64, error)
}

// TicketPurchaseResult is the outcome of a successful ticket purchase
type TicketPurchaseResult struct {
	Ticket     *entities.LotteryTicket
	NewBalance int64
}

// LotteryService sells tickets and conducts the weighted periodic draw
type LotteryService interface {
	// PurchaseTickets debits points and records a ticket purchase. The
	// requested count is clamped to what the balance affords.
	PurchaseTickets(ctx context.Context, accountID int64, count int64) (*TicketPurchaseResult, error)

	// ConductDraw runs the weighted drawing for a period and credits winners
	ConductDraw(ctx context.Context, period string) (*entities.LotteryDraw, error)

	// GetResults returns the completed draw for a period
	GetResults(ctx context.Context, period string) (*entities.LotteryDraw, error)
}

// WithdrawalService manages the withdrawal hold/approve/reject state machine
type WithdrawalService interface {
	// Create validates the request, holds the points and inserts a pending row
	Create(ctx context.Context, accountID, tokensRequested int64, address *string) (*entities.Withdrawal, error)

	// Approve transitions a pending withdrawal to approved. No balance change.
	Approve(ctx context.Context, id int64) (*entities.Withdrawal, error)

	// Reject refunds the held points and transitions to rejected
	Reject(ctx context.Context, id int64, reason string) (*entities.Withdrawal, error)

	// ListByAccount returns an account's withdrawals, newest first
	ListByAccount(ctx context.Context, accountID int64) ([]*entities.Withdrawal, error)

	// ListPending returns all pending withdrawals, oldest first
	ListPending(ctx context.Context) ([]*entities.Withdrawal, error)
}
