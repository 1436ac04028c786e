package repository

import (
	"context"
	"testing"

	"fundpool/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	memberRepo := NewMemberRepository(testDB.DB)
	repo := NewDepositRepository(testDB.DB)
	ctx := context.Background()

	member := testutil.CreateTestMember("depositor")
	require.NoError(t, memberRepo.Create(ctx, member))

	t.Run("totals are zero with no deposits", func(t *testing.T) {
		total, err := repo.TotalByMember(ctx, member.ID)
		require.NoError(t, err)
		assert.True(t, total.IsZero())

		pool, err := repo.TotalPool(ctx)
		require.NoError(t, err)
		assert.True(t, pool.IsZero())
	})

	t.Run("create and read back ordered by member month", func(t *testing.T) {
		amounts := []int64{300, 600, 300}
		running := int64(0)
		for i, amount := range amounts {
			running += amount
			deposit := testutil.CreateTestDeposit(member.ID, i+1, decimal.NewFromInt(amount), decimal.NewFromInt(running))
			require.NoError(t, repo.Create(ctx, deposit))
			assert.NotZero(t, deposit.ID)
		}

		deposits, err := repo.GetByMember(ctx, member.ID)
		require.NoError(t, err)
		require.Len(t, deposits, 3)
		assert.Equal(t, 1, deposits[0].MemberMonth)
		assert.Equal(t, 3, deposits[2].MemberMonth)
		assert.True(t, deposits[2].RunningTotal.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("per member and pool sums", func(t *testing.T) {
		other := testutil.CreateTestMember("second")
		require.NoError(t, memberRepo.Create(ctx, other))
		require.NoError(t, repo.Create(ctx, testutil.CreateTestDeposit(other.ID, 1, decimal.NewFromInt(900), decimal.NewFromInt(900))))

		total, err := repo.TotalByMember(ctx, member.ID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(1200)))

		pool, err := repo.TotalPool(ctx)
		require.NoError(t, err)
		assert.True(t, pool.Equal(decimal.NewFromInt(2100)))

		totals, err := repo.TotalsByMember(ctx)
		require.NoError(t, err)
		assert.True(t, totals[member.ID].Equal(decimal.NewFromInt(1200)))
		assert.True(t, totals[other.ID].Equal(decimal.NewFromInt(900)))
	})

	t.Run("rewrite running total", func(t *testing.T) {
		deposits, err := repo.GetByMember(ctx, member.ID)
		require.NoError(t, err)

		target := deposits[1]
		require.NoError(t, repo.UpdateRunningTotal(ctx, target.ID, decimal.NewFromInt(950)))

		reread, err := repo.GetByMember(ctx, member.ID)
		require.NoError(t, err)
		assert.True(t, reread[1].RunningTotal.Equal(decimal.NewFromInt(950)))
	})

	t.Run("update missing deposit fails", func(t *testing.T) {
		err := repo.UpdateRunningTotal(ctx, 999999, decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}
