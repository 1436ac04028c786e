package service

import (
	"context"
	"testing"
	"time"

	"fundpool/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activeMember(id int64) *models.Member {
	return &models.Member{
		ID:       id,
		Name:     "testmember",
		JoinDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:   models.MemberStatusActive,
	}
}

func TestDepositService_RecordDeposit_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockDepositRepo := new(MockDepositRepository)
	mockSettingRepo := new(MockSettingRepository)

	mockUoW.SetRepositories(mockMemberRepo, mockDepositRepo, nil, mockSettingRepo, nil, nil, nil, nil, nil, nil, nil)

	service := NewDepositService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMemberRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(activeMember(7), nil)
	mockSettingRepo.On("GetAll", ctx).Return([]*models.FundSetting{}, nil)
	mockDepositRepo.On("TotalByMember", ctx, int64(7)).Return(decimal.NewFromInt(600), nil)
	mockDepositRepo.On("Create", ctx, mock.MatchedBy(func(d *models.Deposit) bool {
		return d.MemberID == 7 &&
			d.Amount.Equal(decimal.NewFromInt(300)) &&
			d.MemberMonth == 3 &&
			d.RunningTotal.Equal(decimal.NewFromInt(900))
	})).Return(nil)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	deposit, err := service.RecordDeposit(ctx, 7, decimal.NewFromInt(300), 3, date)

	assert.NoError(t, err)
	assert.NotNil(t, deposit)
	assert.True(t, deposit.RunningTotal.Equal(decimal.NewFromInt(900)))

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockMemberRepo.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
}

func TestDepositService_RecordDeposit_NotMultipleOfUnit(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockDepositRepo := new(MockDepositRepository)
	mockSettingRepo := new(MockSettingRepository)

	mockUoW.SetRepositories(mockMemberRepo, mockDepositRepo, nil, mockSettingRepo, nil, nil, nil, nil, nil, nil, nil)

	service := NewDepositService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMemberRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(activeMember(7), nil)
	mockSettingRepo.On("GetAll", ctx).Return([]*models.FundSetting{}, nil)

	deposit, err := service.RecordDeposit(ctx, 7, decimal.NewFromInt(450), 1, time.Now())

	assert.Error(t, err)
	assert.Nil(t, deposit)
	assert.Equal(t, CodeInvalidAmount, CodeOf(err))
	assert.Equal(t, KindValidation, KindOf(err))

	mockDepositRepo.AssertNotCalled(t, "Create")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestDepositService_RecordDeposit_BelowMinimum(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockDepositRepo := new(MockDepositRepository)
	mockSettingRepo := new(MockSettingRepository)

	mockUoW.SetRepositories(mockMemberRepo, mockDepositRepo, nil, mockSettingRepo, nil, nil, nil, nil, nil, nil, nil)

	service := NewDepositService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMemberRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(activeMember(7), nil)
	mockSettingRepo.On("GetAll", ctx).Return([]*models.FundSetting{}, nil)
	// Member month 3 requires a cumulative total of at least 900
	mockDepositRepo.On("TotalByMember", ctx, int64(7)).Return(decimal.NewFromInt(300), nil)

	deposit, err := service.RecordDeposit(ctx, 7, decimal.NewFromInt(300), 3, time.Now())

	assert.Error(t, err)
	assert.Nil(t, deposit)
	assert.Equal(t, CodeBelowMinimum, CodeOf(err))

	mockDepositRepo.AssertNotCalled(t, "Create")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestDepositService_RecordDeposit_MemberNotFound(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)

	mockUoW.SetRepositories(mockMemberRepo, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	service := NewDepositService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMemberRepo.On("GetByIDForUpdate", ctx, int64(99)).Return(nil, nil)

	deposit, err := service.RecordDeposit(ctx, 99, decimal.NewFromInt(300), 1, time.Now())

	assert.Error(t, err)
	assert.Nil(t, deposit)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestDepositService_RecordDeposit_InvalidInput(t *testing.T) {
	ctx := context.Background()
	service := NewDepositService(new(MockUnitOfWorkFactory))

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := service.RecordDeposit(ctx, 1, decimal.Zero, 1, time.Now())
		assert.Equal(t, CodeInvalidAmount, CodeOf(err))
	})

	t.Run("member month below one", func(t *testing.T) {
		_, err := service.RecordDeposit(ctx, 1, decimal.NewFromInt(300), 0, time.Now())
		assert.Equal(t, CodeInvalidMonth, CodeOf(err))
	})
}

func TestDepositService_Recalculate(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockDepositRepo := new(MockDepositRepository)

	mockUoW.SetRepositories(mockMemberRepo, mockDepositRepo, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	service := NewDepositService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Second row carries a stale running total; only it gets rewritten
	deposits := []*models.Deposit{
		{ID: 1, MemberID: 7, Amount: decimal.NewFromInt(300), MemberMonth: 1, RunningTotal: decimal.NewFromInt(300)},
		{ID: 2, MemberID: 7, Amount: decimal.NewFromInt(600), MemberMonth: 2, RunningTotal: decimal.NewFromInt(600)},
		{ID: 3, MemberID: 7, Amount: decimal.NewFromInt(300), MemberMonth: 3, RunningTotal: decimal.NewFromInt(1200)},
	}

	mockMemberRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(activeMember(7), nil)
	mockDepositRepo.On("GetByMember", ctx, int64(7)).Return(deposits, nil)
	mockDepositRepo.On("UpdateRunningTotal", ctx, int64(2), decimal.NewFromInt(900)).Return(nil)

	err := service.Recalculate(ctx, 7)

	assert.NoError(t, err)
	mockDepositRepo.AssertExpectations(t)
	mockDepositRepo.AssertNumberOfCalls(t, "UpdateRunningTotal", 1)
}
