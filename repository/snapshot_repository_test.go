package repository

import (
	"context"
	"testing"

	"fundpool/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	memberRepo := NewMemberRepository(testDB.DB)
	repo := NewSnapshotRepository(testDB.DB)
	ctx := context.Background()

	alice := testutil.CreateTestMember("alice")
	bob := testutil.CreateTestMember("bob")
	require.NoError(t, memberRepo.Create(ctx, alice))
	require.NoError(t, memberRepo.Create(ctx, bob))

	t.Run("missing month returns nil", func(t *testing.T) {
		snapshot, err := repo.GetByMonth(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("round trip preserves member units", func(t *testing.T) {
		original := testutil.CreateTestSnapshot(6, map[int64]int64{
			alice.ID: 10,
			bob.ID:   20,
		}, decimal.NewFromInt(300))

		require.NoError(t, repo.Create(ctx, original))
		assert.NotZero(t, original.ID)

		snapshot, err := repo.GetByMonth(ctx, 6)
		require.NoError(t, err)
		require.NotNil(t, snapshot)

		assert.Equal(t, int64(10), snapshot.UnitsFor(alice.ID))
		assert.Equal(t, int64(20), snapshot.UnitsFor(bob.ID))
		assert.Equal(t, int64(30), snapshot.CumulativeUnits)
		assert.True(t, snapshot.PoolAmount.Equal(decimal.NewFromInt(9000)))
		assert.True(t, snapshot.Finalized)
	})

	t.Run("duplicate fund month violates unique constraint", func(t *testing.T) {
		duplicate := testutil.CreateTestSnapshot(6, map[int64]int64{alice.ID: 1}, decimal.NewFromInt(300))
		err := repo.Create(ctx, duplicate)
		assert.Error(t, err)
	})

	t.Run("absent member has zero units", func(t *testing.T) {
		snapshot, err := repo.GetByMonth(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, int64(0), snapshot.UnitsFor(999))
	})
}
