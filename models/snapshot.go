package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolSnapshot is an immutable per-fund-month freeze of pool composition.
// MemberUnits maps member id to cumulative units at that month; iteration
// order is irrelevant. Once finalized and used as a distribution source the
// snapshot must never be mutated or re-finalized.
type PoolSnapshot struct {
	ID              int64           `db:"id"`
	FundMonth       int             `db:"fund_month"`
	Label           string          `db:"label"`
	PoolAmount      decimal.Decimal `db:"pool_amount"`
	UnitCount       int64           `db:"unit_count"`
	CumulativeUnits int64           `db:"cumulative_units"`
	MemberUnits     map[int64]int64 `db:"member_units"`
	Finalized       bool            `db:"finalized"`
	CreatedAt       time.Time       `db:"created_at"`
}

// UnitsFor returns the frozen units for a member, zero when absent
func (s *PoolSnapshot) UnitsFor(memberID int64) int64 {
	return s.MemberUnits[memberID]
}
