package service

import (
	"context"
	"testing"

	"fundpool/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupDistributionMocks(t *testing.T) (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockDepositRepository, *MockSnapshotRepository, *MockDistributionRepository, *MockFundLedgerRepository, *MockSettingRepository) {
	t.Helper()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDepositRepo := new(MockDepositRepository)
	mockSnapshotRepo := new(MockSnapshotRepository)
	mockDistributionRepo := new(MockDistributionRepository)
	mockFundLedgerRepo := new(MockFundLedgerRepository)
	mockSettingRepo := new(MockSettingRepository)

	mockUoW.SetRepositories(nil, mockDepositRepo, nil, mockSettingRepo, nil, nil, nil, mockSnapshotRepo, mockDistributionRepo, mockFundLedgerRepo, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockUoW, mockFactory, mockDepositRepo, mockSnapshotRepo, mockDistributionRepo, mockFundLedgerRepo, mockSettingRepo
}

func testSnapshot(fundMonth int, memberUnits map[int64]int64) *models.PoolSnapshot {
	var total int64
	for _, units := range memberUnits {
		total += units
	}
	return &models.PoolSnapshot{
		ID:              1,
		FundMonth:       fundMonth,
		PoolAmount:      decimal.NewFromInt(total * 300),
		UnitCount:       total,
		CumulativeUnits: total,
		MemberUnits:     memberUnits,
		Finalized:       true,
	}
}

func TestDistributionService_CreateSnapshot_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockDepositRepo, mockSnapshotRepo, _, _, mockSettingRepo := setupDistributionMocks(t)
	mockUoW.On("Commit").Return(nil)

	service := NewDistributionService(mockFactory)

	mockSnapshotRepo.On("GetByMonth", ctx, 6).Return(nil, nil)
	mockSettingRepo.On("GetAll", ctx).Return([]*models.FundSetting{}, nil)
	mockDepositRepo.On("TotalsByMember", ctx).Return(map[int64]decimal.Decimal{
		1: decimal.NewFromInt(3000),
		2: decimal.NewFromInt(6000),
		3: decimal.NewFromInt(250), // below one unit, excluded
	}, nil)
	mockSnapshotRepo.On("Create", ctx, mock.AnythingOfType("*models.PoolSnapshot")).Return(nil)

	snapshot, err := service.CreateSnapshot(ctx, 6, "june close")

	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, int64(10), snapshot.MemberUnits[1])
	assert.Equal(t, int64(20), snapshot.MemberUnits[2])
	assert.NotContains(t, snapshot.MemberUnits, int64(3))
	assert.Equal(t, int64(30), snapshot.UnitCount)
	// Floor of the whole-pool total: 9250 / 300
	assert.Equal(t, int64(30), snapshot.CumulativeUnits)
	assert.True(t, snapshot.PoolAmount.Equal(decimal.NewFromInt(9250)))
	assert.True(t, snapshot.Finalized)

	mockSnapshotRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestDistributionService_CreateSnapshot_AlreadyExists(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockSnapshotRepo, _, _, _ := setupDistributionMocks(t)

	service := NewDistributionService(mockFactory)

	mockSnapshotRepo.On("GetByMonth", ctx, 6).Return(testSnapshot(6, map[int64]int64{1: 10}), nil)

	snapshot, err := service.CreateSnapshot(ctx, 6, "june close")

	assert.Error(t, err)
	assert.Nil(t, snapshot)
	assert.Equal(t, CodeSnapshotExists, CodeOf(err))

	mockSnapshotRepo.AssertNotCalled(t, "Create")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestDistributionService_DistributeInterest_ProRata(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockSnapshotRepo, mockDistributionRepo, mockFundLedgerRepo, _ := setupDistributionMocks(t)
	mockUoW.On("Commit").Return(nil)

	service := NewDistributionService(mockFactory)

	// Member 1 holds 10 of 30 units, member 2 holds 20 of 30
	mockSnapshotRepo.On("GetByMonth", ctx, 6).Return(testSnapshot(6, map[int64]int64{1: 10, 2: 20}), nil)
	mockDistributionRepo.On("CreateEntry", ctx, mock.AnythingOfType("*models.InterestEntry")).Return(nil)
	mockDistributionRepo.On("CreateShares", ctx, mock.AnythingOfType("[]*models.MemberInterestShare")).Return(nil)

	balance := &models.FundLedgerBalance{ID: 1, Balance: decimal.Zero}
	mockFundLedgerRepo.On("GetBalanceForUpdate", ctx).Return(balance, nil)
	mockFundLedgerRepo.On("UpdateBalance", ctx, balance).Return(nil)
	mockFundLedgerRepo.On("AppendTransaction", ctx, mock.MatchedBy(func(txn *models.FundLedgerTransaction) bool {
		return txn.Type == models.LedgerTransactionInterestIn &&
			txn.Amount.Equal(decimal.NewFromInt(300)) &&
			txn.ResultingBalance.Equal(decimal.NewFromInt(300))
	})).Return(nil)

	result, err := service.DistributeInterest(ctx, 7, models.InterestSourceLoan, "loan interest july", decimal.NewFromInt(300), 6, nil)

	require.NoError(t, err)
	require.Len(t, result.Shares, 2)

	assert.Equal(t, int64(1), result.Shares[0].MemberID)
	assert.Equal(t, "100.00", result.Shares[0].ShareAmount.StringFixed(2))
	assert.Equal(t, "33.3333", result.Shares[0].SharePercent.StringFixed(4))

	assert.Equal(t, int64(2), result.Shares[1].MemberID)
	assert.Equal(t, "200.00", result.Shares[1].ShareAmount.StringFixed(2))
	assert.Equal(t, "66.6667", result.Shares[1].SharePercent.StringFixed(4))

	assert.True(t, result.Residual.IsZero())
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(300)))

	mockFundLedgerRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestDistributionService_DistributeInterest_RoundingResidual(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockSnapshotRepo, mockDistributionRepo, mockFundLedgerRepo, _ := setupDistributionMocks(t)
	mockUoW.On("Commit").Return(nil)

	service := NewDistributionService(mockFactory)

	// 100 split three ways rounds each share down to 33.33
	mockSnapshotRepo.On("GetByMonth", ctx, 6).Return(testSnapshot(6, map[int64]int64{1: 1, 2: 1, 3: 1}), nil)
	mockDistributionRepo.On("CreateEntry", ctx, mock.AnythingOfType("*models.InterestEntry")).Return(nil)
	mockDistributionRepo.On("CreateShares", ctx, mock.AnythingOfType("[]*models.MemberInterestShare")).Return(nil)

	balance := &models.FundLedgerBalance{ID: 1, Balance: decimal.Zero}
	mockFundLedgerRepo.On("GetBalanceForUpdate", ctx).Return(balance, nil)
	mockFundLedgerRepo.On("UpdateBalance", ctx, balance).Return(nil)
	mockFundLedgerRepo.On("AppendTransaction", ctx, mock.AnythingOfType("*models.FundLedgerTransaction")).Return(nil)

	result, err := service.DistributeInterest(ctx, 7, models.InterestSourceBank, "bank interest", decimal.NewFromInt(100), 6, nil)

	require.NoError(t, err)
	require.Len(t, result.Shares, 3)

	for _, share := range result.Shares {
		assert.Equal(t, "33.33", share.ShareAmount.StringFixed(2))
	}
	assert.Equal(t, "0.01", result.Residual.StringFixed(2))
}

func TestDistributionService_DistributeInterest_Guards(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshot missing", func(t *testing.T) {
		mockUoW, mockFactory, _, mockSnapshotRepo, mockDistributionRepo, _, _ := setupDistributionMocks(t)
		service := NewDistributionService(mockFactory)

		mockSnapshotRepo.On("GetByMonth", ctx, 9).Return(nil, nil)

		_, err := service.DistributeInterest(ctx, 9, models.InterestSourceLoan, "", decimal.NewFromInt(100), 9, nil)
		assert.Equal(t, CodeSnapshotMissing, CodeOf(err))

		mockDistributionRepo.AssertNotCalled(t, "CreateEntry")
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("zero units", func(t *testing.T) {
		_, mockFactory, _, mockSnapshotRepo, _, _, _ := setupDistributionMocks(t)
		service := NewDistributionService(mockFactory)

		empty := testSnapshot(6, map[int64]int64{})
		mockSnapshotRepo.On("GetByMonth", ctx, 6).Return(empty, nil)

		_, err := service.DistributeInterest(ctx, 7, models.InterestSourceLoan, "", decimal.NewFromInt(100), 6, nil)
		assert.Equal(t, CodeZeroUnits, CodeOf(err))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, mockFactory, _, _, _, _, _ := setupDistributionMocks(t)
		service := NewDistributionService(mockFactory)

		_, err := service.DistributeInterest(ctx, 7, models.InterestSourceLoan, "", decimal.Zero, 6, nil)
		assert.Equal(t, CodeInvalidAmount, CodeOf(err))
	})
}

func TestDistributionService_GetDistributionReport(t *testing.T) {
	ctx := context.Background()

	_, mockFactory, _, _, mockDistributionRepo, _, _ := setupDistributionMocks(t)
	service := NewDistributionService(mockFactory)

	entry := &models.InterestEntry{
		ID:              4,
		EarnedMonth:     7,
		Source:          models.InterestSourceLoan,
		PoolSourceMonth: 6,
		Amount:          decimal.NewFromInt(100),
	}
	shares := []*models.MemberInterestShare{
		{MemberID: 1, InterestEntryID: 4, ShareAmount: decimal.RequireFromString("33.33")},
		{MemberID: 2, InterestEntryID: 4, ShareAmount: decimal.RequireFromString("33.33")},
		{MemberID: 3, InterestEntryID: 4, ShareAmount: decimal.RequireFromString("33.33")},
	}

	mockDistributionRepo.On("GetEntryByID", ctx, int64(4)).Return(entry, nil)
	mockDistributionRepo.On("GetSharesByEntry", ctx, int64(4)).Return(shares, nil)

	result, err := service.GetDistributionReport(ctx, 4)

	require.NoError(t, err)
	assert.Equal(t, entry, result.Entry)
	assert.Equal(t, "0.01", result.Residual.StringFixed(2))
}
