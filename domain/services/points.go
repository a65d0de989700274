package services

// Point values and policy constants for the reward economy.
const (
	// Ad view credit values per ad type
	AdMainPoints int64 = 4
	AdSidePoints int64 = 2
	AdLowPoints  int64 = 1

	// DailyAdCap is the maximum number of credited ad views per account per
	// calendar day (UTC)
	DailyAdCap int64 = 100

	// TaskPoints is the credit for completing a task
	TaskPoints int64 = 10

	// Referral bonuses: the inviter is credited per attributed invitee, the
	// invitee once ever
	InviterBonusPoints int64 = 50
	InviteeBonusPoints int64 = 25

	// TicketPrice is the point cost of one lottery ticket
	TicketPrice int64 = 100

	// WithdrawRatio converts withdrawal tokens to points: 100 points = 1 token
	WithdrawRatio int64 = 100

	// MinWithdrawTokens is the minimum withdrawal request size
	MinWithdrawTokens int64 = 10
)

// AdPointValue returns the credit value and event kind for an ad type.
// Unknown types return ok=false.
func AdPointValue(adType string) (int64, bool) {
	switch adType {
	case "main":
		return AdMainPoints, true
	case "side":
		return AdSidePoints, true
	case "low":
		return AdLowPoints, true
	default:
		return 0, false
	}
}
