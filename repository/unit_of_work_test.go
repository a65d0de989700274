package repository

import (
	"context"
	"testing"

	"adsbot/domain/entities"
	"adsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersists(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	account, err := uow.AccountRepository().GetOrCreate(ctx, "100", "alice")
	require.NoError(t, err)
	require.NoError(t, uow.AccountRepository().UpdateBalance(ctx, account.ID, 100))
	require.NoError(t, uow.LedgerEventRepository().Append(ctx, &entities.LedgerEvent{
		AccountID: account.ID,
		Kind:      entities.EventKindTaskCredit,
		Delta:     100,
	}))

	require.NoError(t, uow.Commit())

	// Visible outside the transaction after commit
	repo := NewAccountRepository(testDB.DB)
	got, err := repo.GetByExternalID(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(100), got.Balance)

	sum, err := NewLedgerEventRepository(testDB.DB).SumDeltas(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Balance, sum, "balance equals sum of ledger deltas")
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.AccountRepository().GetOrCreate(ctx, "200", "bob")
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	repo := NewAccountRepository(testDB.DB)
	got, err := repo.GetByExternalID(ctx, "200")
	require.NoError(t, err)
	assert.Nil(t, got, "rolled back insert must not be visible")
}

func TestUnitOfWork_Lifecycle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	t.Run("double begin rejected", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		assert.Error(t, uow.Begin(ctx))
	})

	t.Run("commit without begin rejected", func(t *testing.T) {
		uow := factory.Create()
		assert.Error(t, uow.Commit())
	})

	t.Run("rollback without begin is a no-op", func(t *testing.T) {
		uow := factory.Create()
		assert.NoError(t, uow.Rollback())
	})

	t.Run("repository access before begin panics", func(t *testing.T) {
		uow := factory.Create()
		assert.Panics(t, func() { uow.AccountRepository() })
	})
}
