package models

import (
	"github.com/shopspring/decimal"
)

// EligibilitySummary is the outward-facing result of an eligibility
// computation. MaxEligible is already net of outstanding principal and
// floored at zero.
type EligibilitySummary struct {
	MemberID      int64
	TotalDeposits decimal.Decimal
	TotalPool     decimal.Decimal
	Outstanding   decimal.Decimal
	MaxEligible   decimal.Decimal
	MaxMultiplier decimal.Decimal
	ActiveLoans   int
	Eligible      bool
}
