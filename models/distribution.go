package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestSource categorizes where distributed interest was earned
type InterestSource string

const (
	InterestSourceLoan  InterestSource = "loan_interest"
	InterestSourceBank  InterestSource = "bank_interest"
	InterestSourceOther InterestSource = "other"
)

// InterestEntry is an append-only record of an interest distribution.
// PoolSourceMonth names the snapshot whose frozen composition funds the
// pro-rata split.
type InterestEntry struct {
	ID              int64           `db:"id"`
	EarnedMonth     int             `db:"earned_month"`
	Source          InterestSource  `db:"source"`
	Description     string          `db:"description"`
	LoanID          *int64          `db:"loan_id"`
	PoolSourceMonth int             `db:"pool_source_month"`
	Amount          decimal.Decimal `db:"amount"`
	CreatedAt       time.Time       `db:"created_at"`
}

// MemberInterestShare is one member's computed share of an interest entry.
// Unique per (member, entry); append-only.
type MemberInterestShare struct {
	ID              int64           `db:"id"`
	MemberID        int64           `db:"member_id"`
	InterestEntryID int64           `db:"interest_entry_id"`
	MemberUnits     int64           `db:"member_units"`
	TotalUnits      int64           `db:"total_units"`
	SharePercent    decimal.Decimal `db:"share_percent"`
	ShareAmount     decimal.Decimal `db:"share_amount"`
	CreatedAt       time.Time       `db:"created_at"`
}

// DistributionResult is the outcome of one interest distribution. Residual
// is the difference between the distributed amount and the sum of rounded
// per-member shares; it is measured, not reconciled.
type DistributionResult struct {
	Entry    *InterestEntry
	Shares   []*MemberInterestShare
	Residual decimal.Decimal
}
