package entities

import "time"

// LotteryTicket represents a single ticket purchase. Immutable once written.
type LotteryTicket struct {
	ID          int64     `db:"id"`
	AccountID   int64     `db:"account_id"`
	TicketCount int64     `db:"ticket_count"`
	PointsSpent int64     `db:"points_spent"`
	CreatedAt   time.Time `db:"created_at"`
}

// LotteryParticipant aggregates one account's tickets for a draw period
type LotteryParticipant struct {
	AccountID  int64  `db:"account_id"`
	ExternalID string `db:"external_id"`
	Username   string `db:"username"`
	Tickets    int64  `db:"tickets"`

	// Contiguous half-open range assigned during a draw, packed end-to-end
	// starting at 1. A participant owns numbers n with RangeStart <= n <= RangeEnd.
	RangeStart int64 `db:"-"`
	RangeEnd   int64 `db:"-"`
}

// OwnsNumber checks if a drawn number falls inside this participant's range
func (p *LotteryParticipant) OwnsNumber(n int64) bool {
	return n >= p.RangeStart && n <= p.RangeEnd
}
