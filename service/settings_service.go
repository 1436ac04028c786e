package service

import (
	"context"
	"fmt"
	"strconv"

	"fundpool/models"

	"github.com/shopspring/decimal"
)

// Defaults applied when a fund setting row is absent
var (
	defaultDepositUnit       = decimal.NewFromInt(300)
	defaultMaxPoolPercentage = decimal.NewFromFloat(0.40)
)

const (
	defaultMaxActiveLoans = 1
	defaultTenureYears    = 3
)

// settingsService implements the SettingsService interface
type settingsService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettingsService creates a new settings service
func NewSettingsService(uowFactory UnitOfWorkFactory) SettingsService {
	return &settingsService{uowFactory: uowFactory}
}

// FundConfig returns the typed fund-wide tunables with defaults applied
func (s *settingsService) FundConfig(ctx context.Context) (*models.FundConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return loadFundConfig(ctx, uow)
}

// UpdateSetting writes a single tunable
func (s *settingsService) UpdateSetting(ctx context.Context, key, value string) error {
	switch key {
	case models.SettingDepositUnit, models.SettingMaxPoolPercentage:
		if _, err := decimal.NewFromString(value); err != nil {
			return newValidationError(CodeMissingField, value, "setting %s requires a decimal value", key)
		}
	case models.SettingMaxActiveLoans, models.SettingTenureYears:
		if _, err := strconv.Atoi(value); err != nil {
			return newValidationError(CodeMissingField, value, "setting %s requires an integer value", key)
		}
	default:
		return newValidationError(CodeMissingField, key, "unknown fund setting")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SettingRepository().Upsert(ctx, key, value); err != nil {
		return fmt.Errorf("failed to update setting %s: %w", key, err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// loadFundConfig reads all fund settings inside the caller's unit of work so
// every calculation in a transaction sees one consistent configuration.
func loadFundConfig(ctx context.Context, uow UnitOfWork) (*models.FundConfig, error) {
	settings, err := uow.SettingRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fund settings: %w", err)
	}

	cfg := &models.FundConfig{
		DepositUnit:       defaultDepositUnit,
		MaxPoolPercentage: defaultMaxPoolPercentage,
		MaxActiveLoans:    defaultMaxActiveLoans,
		TenureYears:       defaultTenureYears,
	}

	for _, setting := range settings {
		switch setting.Key {
		case models.SettingDepositUnit:
			if v, err := decimal.NewFromString(setting.Value); err == nil && v.IsPositive() {
				cfg.DepositUnit = v
			}
		case models.SettingMaxPoolPercentage:
			if v, err := decimal.NewFromString(setting.Value); err == nil && v.IsPositive() {
				cfg.MaxPoolPercentage = v
			}
		case models.SettingMaxActiveLoans:
			if v, err := strconv.Atoi(setting.Value); err == nil && v > 0 {
				cfg.MaxActiveLoans = v
			}
		case models.SettingTenureYears:
			if v, err := strconv.Atoi(setting.Value); err == nil && v > 0 {
				cfg.TenureYears = v
			}
		}
	}

	return cfg, nil
}
