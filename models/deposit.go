package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit represents a member contribution. Deposits are immutable once
// persisted; corrections happen by recomputing running totals, never by
// editing rows.
type Deposit struct {
	ID           int64           `db:"id"`
	MemberID     int64           `db:"member_id"`
	Amount       decimal.Decimal `db:"amount"`
	MemberMonth  int             `db:"member_month"`
	DepositDate  time.Time       `db:"deposit_date"`
	RunningTotal decimal.Decimal `db:"running_total"`
	CreatedAt    time.Time       `db:"created_at"`
}
