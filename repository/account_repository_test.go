package repository

import (
	"context"
	"testing"

	"adsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetOrCreate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates account on first call", func(t *testing.T) {
		account, err := repo.GetOrCreate(ctx, "100", "alice")
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, "100", account.ExternalID)
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, int64(0), account.Balance)
		assert.Nil(t, account.ReferredBy)
		assert.False(t, account.ReferralClaimed)
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("idempotent on repeat call", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, "200", "bob")
		require.NoError(t, err)

		second, err := repo.GetOrCreate(ctx, "200", "bob")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("non-empty username updates stored one", func(t *testing.T) {
		_, err := repo.GetOrCreate(ctx, "300", "oldname")
		require.NoError(t, err)

		account, err := repo.GetOrCreate(ctx, "300", "newname")
		require.NoError(t, err)
		assert.Equal(t, "newname", account.Username)
	})

	t.Run("empty username never clears stored one", func(t *testing.T) {
		_, err := repo.GetOrCreate(ctx, "400", "keepme")
		require.NoError(t, err)

		account, err := repo.GetOrCreate(ctx, "400", "")
		require.NoError(t, err)
		assert.Equal(t, "keepme", account.Username)
	})
}

func TestAccountRepository_Lookups(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	created, err := repo.GetOrCreate(ctx, "100", "alice")
	require.NoError(t, err)

	t.Run("GetByID", func(t *testing.T) {
		account, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, created.ExternalID, account.ExternalID)
	})

	t.Run("GetByExternalID", func(t *testing.T) {
		account, err := repo.GetByExternalID(ctx, "100")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, created.ID, account.ID)
	})

	t.Run("missing account returns nil without error", func(t *testing.T) {
		account, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, account)

		account, err = repo.GetByExternalID(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.GetOrCreate(ctx, "100", "alice")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateBalance(ctx, account.ID, 500))

	updated, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), updated.Balance)

	t.Run("unknown account errors", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, 999999, 500)
		assert.Error(t, err)
	})

	t.Run("negative balance blocked by constraint", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, account.ID, -1)
		assert.Error(t, err)
	})
}

func TestAccountRepository_SetInviter(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	inviter, err := repo.GetOrCreate(ctx, "100", "inviter")
	require.NoError(t, err)
	other, err := repo.GetOrCreate(ctx, "200", "other")
	require.NoError(t, err)
	invitee, err := repo.GetOrCreate(ctx, "300", "invitee")
	require.NoError(t, err)

	t.Run("first claim wins", func(t *testing.T) {
		claimed, err := repo.SetInviter(ctx, invitee.ID, inviter.ID)
		require.NoError(t, err)
		assert.True(t, claimed)

		updated, err := repo.GetByID(ctx, invitee.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.ReferredBy)
		assert.Equal(t, inviter.ID, *updated.ReferredBy)
	})

	t.Run("second claim affects zero rows", func(t *testing.T) {
		claimed, err := repo.SetInviter(ctx, invitee.ID, other.ID)
		require.NoError(t, err)
		assert.False(t, claimed)

		// The original attribution is untouched
		updated, err := repo.GetByID(ctx, invitee.ID)
		require.NoError(t, err)
		assert.Equal(t, inviter.ID, *updated.ReferredBy)
	})
}

func TestAccountRepository_ClaimReferralBonus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.GetOrCreate(ctx, "100", "alice")
	require.NoError(t, err)

	claimed, err := repo.ClaimReferralBonus(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimReferralBonus(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, claimed, "bonus flag is one-shot")
}
