package repository

import (
	"context"
	"testing"
	"time"

	"adsbot/domain"
	"adsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotteryTicketRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	ticketRepo := NewLotteryTicketRepository(testDB.DB)
	ctx := context.Background()

	alice, err := accountRepo.GetOrCreate(ctx, "100", "alice")
	require.NoError(t, err)
	bob, err := accountRepo.GetOrCreate(ctx, "200", "bob")
	require.NoError(t, err)

	currentPeriod := time.Now().UTC().Format("2006-01")

	t.Run("create assigns id and timestamp", func(t *testing.T) {
		ticket := testutil.CreateTestTicket(alice.ID, 3)
		require.NoError(t, ticketRepo.Create(ctx, ticket))
		assert.NotZero(t, ticket.ID)
		assert.False(t, ticket.CreatedAt.IsZero())
	})

	t.Run("participants aggregate per account", func(t *testing.T) {
		// alice already holds 3 tickets; add 2 more and give bob 5
		require.NoError(t, ticketRepo.Create(ctx, testutil.CreateTestTicket(alice.ID, 2)))
		require.NoError(t, ticketRepo.Create(ctx, testutil.CreateTestTicket(bob.ID, 5)))

		participants, err := ticketRepo.GetParticipantsForPeriod(ctx, currentPeriod)
		require.NoError(t, err)
		require.Len(t, participants, 2)

		// Ordered by account id for deterministic range assignment
		assert.Equal(t, alice.ID, participants[0].AccountID)
		assert.Equal(t, int64(5), participants[0].Tickets)
		assert.Equal(t, "alice", participants[0].Username)
		assert.Equal(t, bob.ID, participants[1].AccountID)
		assert.Equal(t, int64(5), participants[1].Tickets)
	})

	t.Run("no participants for another period", func(t *testing.T) {
		participants, err := ticketRepo.GetParticipantsForPeriod(ctx, "1990-01")
		require.NoError(t, err)
		assert.Empty(t, participants)
	})

	t.Run("total tickets by account", func(t *testing.T) {
		total, err := ticketRepo.TotalTicketsByAccount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)

		total, err = ticketRepo.TotalTicketsByAccount(ctx, 999999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}

func TestLotteryDrawRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	drawRepo := NewLotteryDrawRepository(testDB.DB)
	ctx := context.Background()

	alice, err := accountRepo.GetOrCreate(ctx, "100", "alice")
	require.NoError(t, err)

	t.Run("create and read back winners", func(t *testing.T) {
		draw := testutil.CreateTestDraw("2025-07", testutil.CreateTestWinner(1, alice.ID, 4, 2))
		require.NoError(t, drawRepo.Create(ctx, draw))
		assert.NotZero(t, draw.ID)

		got, err := drawRepo.GetByPeriod(ctx, "2025-07")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, draw.TotalTickets, got.TotalTickets)
		require.Len(t, got.Winners, 1)
		assert.Equal(t, 1, got.Winners[0].Place)
		assert.Equal(t, alice.ID, got.Winners[0].AccountID)
		assert.Equal(t, int64(2), got.Winners[0].WinningNumber)
	})

	t.Run("period is unique", func(t *testing.T) {
		dup := testutil.CreateTestDraw("2025-07", testutil.CreateTestWinner(1, alice.ID, 4, 1))
		err := drawRepo.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrDrawAlreadyConducted)
	})

	t.Run("missing period returns nil", func(t *testing.T) {
		got, err := drawRepo.GetByPeriod(ctx, "1990-01")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
