package entities

import (
	"errors"
	"time"
)

// Account represents a participant's points account
type Account struct {
	ID              int64     `db:"id"`
	ExternalID      string    `db:"external_id"` // Stable Telegram identifier
	Username        string    `db:"username"`
	Balance         int64     `db:"balance"`
	ReferredBy      *int64    `db:"referred_by"`      // Set at most once
	ReferralClaimed bool      `db:"referral_claimed"` // One-shot invitee bonus flag
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// HasSufficientBalance checks if the account can cover an amount
func (a *Account) HasSufficientBalance(amount int64) bool {
	return a.Balance >= amount
}

// IsReferred returns true if an inviter has been recorded for this account
func (a *Account) IsReferred() bool {
	return a.ReferredBy != nil
}

// ValidateAmount checks if an amount is valid for a debit against this account
func (a *Account) ValidateAmount(amount int64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !a.HasSufficientBalance(amount) {
		return errors.New("insufficient balance")
	}
	return nil
}

// CalculateNewBalance calculates what the balance would be after a change
func (a *Account) CalculateNewBalance(changeAmount int64) int64 {
	return a.Balance + changeAmount
}
