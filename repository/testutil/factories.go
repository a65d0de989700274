package testutil

import (
	"time"

	"adsbot/domain/entities"
)

// CreateTestLedgerEvent creates a ledger event with default metadata
func CreateTestLedgerEvent(accountID int64, kind entities.EventKind, delta int64) *entities.LedgerEvent {
	return &entities.LedgerEvent{
		AccountID: accountID,
		Kind:      kind,
		Delta:     delta,
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestTicket creates a ticket purchase record priced at the standard rate
func CreateTestTicket(accountID, count int64) *entities.LotteryTicket {
	return &entities.LotteryTicket{
		AccountID:   accountID,
		TicketCount: count,
		PointsSpent: count * 100,
	}
}

// CreateTestWithdrawal creates a pending withdrawal with default values
func CreateTestWithdrawal(accountID, tokens int64) *entities.Withdrawal {
	address := "T-test-address"
	return &entities.Withdrawal{
		AccountID:     accountID,
		Tokens:        tokens,
		PointsDebited: tokens * 100,
		Address:       &address,
		Status:        entities.WithdrawalStatusPending,
	}
}

// CreateTestDraw creates a completed draw record for a period
func CreateTestDraw(period string, winners ...entities.LotteryWinner) *entities.LotteryDraw {
	var totalTickets int64
	for _, w := range winners {
		totalTickets += w.Tickets
	}
	return &entities.LotteryDraw{
		Period:            period,
		TotalTickets:      totalTickets,
		TotalParticipants: int64(len(winners)),
		Winners:           winners,
		CreatedAt:         time.Now(),
	}
}

// CreateTestWinner creates one prize place of a draw
func CreateTestWinner(place int, accountID int64, tickets, number int64) entities.LotteryWinner {
	return entities.LotteryWinner{
		Place:         place,
		AccountID:     accountID,
		ExternalID:    "ext-winner",
		Username:      "winner",
		Tickets:       tickets,
		WinningNumber: number,
		Prize:         entities.PrizeForPlace(place),
	}
}
