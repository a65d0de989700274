package entities

import (
	"fmt"
	"regexp"
	"time"
)

// Prize table: place -> points credited, in the same currency as account balances.
const (
	FirstPlacePrize  = 1000
	SecondPlacePrize = 500
	ThirdPlacePrize  = 250

	// MaxPrizePlaces is the number of places drawn when enough participants exist
	MaxPrizePlaces = 3
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// LotteryDraw represents the completed drawing for one period. Unique per
// period; written exactly once.
type LotteryDraw struct {
	ID                int64           `db:"id"`
	Period            string          `db:"period"` // Calendar month, e.g. "2025-09"
	TotalTickets      int64           `db:"total_tickets"`
	TotalParticipants int64           `db:"total_participants"`
	Winners           []LotteryWinner `db:"winners"`
	CreatedAt         time.Time       `db:"created_at"`
}

// LotteryWinner records one prize place of a draw
type LotteryWinner struct {
	Place         int    `json:"place"`
	AccountID     int64  `json:"account_id"`
	ExternalID    string `json:"external_id"`
	Username      string `json:"username"`
	Tickets       int64  `json:"tickets"`
	WinningNumber int64  `json:"winning_number"`
	Prize         int64  `json:"prize"`
}

// ValidatePeriod checks that a period string is a well-formed calendar month
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return fmt.Errorf("period must be formatted YYYY-MM, got %q", period)
	}
	return nil
}

// PreviousPeriod returns the calendar month before the given time, formatted
// as a draw period. Used by the scheduled draw on the 1st of each month.
func PreviousPeriod(now time.Time) string {
	now = now.UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 0, -1).Format("2006-01")
}

// PrizeForPlace returns the prize amount for a place, or 0 for places beyond
// the prize table
func PrizeForPlace(place int) int64 {
	switch place {
	case 1:
		return FirstPlacePrize
	case 2:
		return SecondPlacePrize
	case 3:
		return ThirdPlacePrize
	default:
		return 0
	}
}
