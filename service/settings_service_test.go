package service

import (
	"context"
	"testing"

	"fundpool/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_FundConfig(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSettingRepo := new(MockSettingRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockSettingRepo, nil, nil, nil, nil, nil, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	service := NewSettingsService(mockFactory)

	t.Run("defaults when no rows", func(t *testing.T) {
		mockSettingRepo.ExpectedCalls = nil
		mockSettingRepo.On("GetAll", ctx).Return([]*models.FundSetting{}, nil)

		cfg, err := service.FundConfig(ctx)

		require.NoError(t, err)
		assert.True(t, cfg.DepositUnit.Equal(decimal.NewFromInt(300)))
		assert.True(t, cfg.MaxPoolPercentage.Equal(decimal.NewFromFloat(0.40)))
		assert.Equal(t, 1, cfg.MaxActiveLoans)
		assert.Equal(t, 3, cfg.TenureYears)
	})

	t.Run("stored rows override defaults", func(t *testing.T) {
		mockSettingRepo.ExpectedCalls = nil
		mockSettingRepo.On("GetAll", ctx).Return([]*models.FundSetting{
			{Key: models.SettingDepositUnit, Value: "500"},
			{Key: models.SettingMaxActiveLoans, Value: "2"},
		}, nil)

		cfg, err := service.FundConfig(ctx)

		require.NoError(t, err)
		assert.True(t, cfg.DepositUnit.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, 2, cfg.MaxActiveLoans)
		assert.Equal(t, 3, cfg.TenureYears)
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		mockSettingRepo.ExpectedCalls = nil
		mockSettingRepo.On("GetAll", ctx).Return([]*models.FundSetting{
			{Key: models.SettingDepositUnit, Value: "bogus"},
			{Key: models.SettingTenureYears, Value: "-1"},
		}, nil)

		cfg, err := service.FundConfig(ctx)

		require.NoError(t, err)
		assert.True(t, cfg.DepositUnit.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, 3, cfg.TenureYears)
	})
}

func TestSettingsService_UpdateSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("valid decimal setting", func(t *testing.T) {
		mockUoW := new(MockUnitOfWork)
		mockFactory := new(MockUnitOfWorkFactory)
		mockSettingRepo := new(MockSettingRepository)

		mockUoW.SetRepositories(nil, nil, nil, mockSettingRepo, nil, nil, nil, nil, nil, nil, nil)
		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockSettingRepo.On("Upsert", ctx, models.SettingMaxPoolPercentage, "0.35").Return(nil)

		service := NewSettingsService(mockFactory)
		err := service.UpdateSetting(ctx, models.SettingMaxPoolPercentage, "0.35")

		assert.NoError(t, err)
		mockSettingRepo.AssertExpectations(t)
	})

	t.Run("invalid integer value", func(t *testing.T) {
		service := NewSettingsService(new(MockUnitOfWorkFactory))
		err := service.UpdateSetting(ctx, models.SettingMaxActiveLoans, "two")
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("unknown key", func(t *testing.T) {
		service := NewSettingsService(new(MockUnitOfWorkFactory))
		err := service.UpdateSetting(ctx, "nonsense", "1")
		assert.Equal(t, KindValidation, KindOf(err))
	})
}
