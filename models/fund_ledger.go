package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTransactionType represents the type of a fund ledger movement
type LedgerTransactionType string

const (
	LedgerTransactionInterestIn LedgerTransactionType = "interest_in"
	LedgerTransactionAdjustment LedgerTransactionType = "adjustment"
)

// FundLedgerBalance is the single running balance of pool-earned interest
// held as a reserve.
type FundLedgerBalance struct {
	ID        int64           `db:"id"`
	Balance   decimal.Decimal `db:"balance"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// FundLedgerTransaction is the append-only audit trail for every balance
// change. Amount is signed; ResultingBalance is the balance after applying
// it.
type FundLedgerTransaction struct {
	ID               int64                 `db:"id"`
	Type             LedgerTransactionType `db:"type"`
	Amount           decimal.Decimal       `db:"amount"`
	ResultingBalance decimal.Decimal       `db:"resulting_balance"`
	InterestEntryID  *int64                `db:"interest_entry_id"`
	Description      string                `db:"description"`
	CreatedAt        time.Time             `db:"created_at"`
}
