package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestBracket maps a loan-to-deposit multiplier range to an annual
// interest rate. The lower bound is exclusive, the upper bound inclusive;
// a nil MaxMultiplier means the bracket is unbounded above.
type InterestBracket struct {
	ID            int64            `db:"id"`
	MinMultiplier decimal.Decimal  `db:"min_multiplier"`
	MaxMultiplier *decimal.Decimal `db:"max_multiplier"`
	Rate          decimal.Decimal  `db:"rate"`
	Active        bool             `db:"active"`
	CreatedAt     time.Time        `db:"created_at"`
}

// IsUnbounded checks whether the bracket has no upper multiplier bound
func (b *InterestBracket) IsUnbounded() bool {
	return b.MaxMultiplier == nil
}

// Matches checks whether a multiplier falls into this bracket.
// A multiplier exactly equal to MinMultiplier falls into the lower bracket.
func (b *InterestBracket) Matches(multiplier decimal.Decimal) bool {
	if !b.MinMultiplier.LessThan(multiplier) {
		return false
	}
	if b.IsUnbounded() {
		return true
	}
	return !multiplier.GreaterThan(*b.MaxMultiplier)
}
