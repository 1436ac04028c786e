package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund setting keys
const (
	SettingDepositUnit       = "deposit_unit"
	SettingMaxPoolPercentage = "max_pool_percentage"
	SettingMaxActiveLoans    = "max_active_loans"
	SettingTenureYears       = "tenure_years"
)

// FundSetting is a single admin-managed key/value tunable
type FundSetting struct {
	ID        int64     `db:"id"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FundConfig is the typed view of all fund-wide tunables read by every
// calculation in the engine.
type FundConfig struct {
	DepositUnit       decimal.Decimal
	MaxPoolPercentage decimal.Decimal
	MaxActiveLoans    int
	TenureYears       int
}
