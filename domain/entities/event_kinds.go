package entities

// EventKind represents the type of balance change recorded in the ledger
type EventKind string

// All ledger event kinds supported by the system
const (
	// Ad view credits
	EventKindAdMainCredit EventKind = "ad_main_credit"
	EventKindAdSideCredit EventKind = "ad_side_credit"
	EventKindAdLowCredit  EventKind = "ad_low_credit"

	// Task and referral credits
	EventKindTaskCredit    EventKind = "task_credit"
	EventKindReferralBonus EventKind = "referral_bonus"

	// Lottery
	EventKindLotteryTicket EventKind = "lottery_ticket"
	EventKindLotteryWin    EventKind = "lottery_win"

	// Withdrawal lifecycle
	EventKindWithdrawalHold   EventKind = "withdrawal_hold"
	EventKindWithdrawalRefund EventKind = "withdrawal_refund"
)

// IsAdCredit returns true if the kind is an ad view credit
func (k EventKind) IsAdCredit() bool {
	return k == EventKindAdMainCredit ||
		k == EventKindAdSideCredit ||
		k == EventKindAdLowCredit
}

// IsCredit returns true if the kind always carries a positive delta
func (k EventKind) IsCredit() bool {
	return k.IsAdCredit() ||
		k == EventKindTaskCredit ||
		k == EventKindReferralBonus ||
		k == EventKindLotteryWin ||
		k == EventKindWithdrawalRefund
}

// IsDebit returns true if the kind always carries a negative delta
func (k EventKind) IsDebit() bool {
	return k == EventKindLotteryTicket || k == EventKindWithdrawalHold
}

// String returns the string representation of the event kind
func (k EventKind) String() string {
	return string(k)
}

// AdEventKinds returns the kinds counted against the daily ad view quota
func AdEventKinds() []EventKind {
	return []EventKind{EventKindAdMainCredit, EventKindAdSideCredit, EventKindAdLowCredit}
}
