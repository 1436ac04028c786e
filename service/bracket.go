package service

import (
	"fundpool/models"

	"github.com/shopspring/decimal"
)

// DefaultInterestRate is the annual rate applied when no bracket matches a
// multiplier. This and the 30-day month convention are the only hardcoded
// policy values in the engine.
var DefaultInterestRate = decimal.NewFromInt(12)

// ResolveRate maps a loan-to-deposit multiplier to an annual interest rate.
// Bracket bounds are exclusive below and inclusive above: a multiplier
// exactly equal to a bracket's minimum falls into the lower bracket. Gaps
// fall back to the default rate.
func ResolveRate(brackets []*models.InterestBracket, multiplier decimal.Decimal) decimal.Decimal {
	for _, bracket := range brackets {
		if !bracket.Active {
			continue
		}
		if bracket.Matches(multiplier) {
			return bracket.Rate
		}
	}
	return DefaultInterestRate
}

// maxMultiplierCap returns the multiplier cap used by the eligibility
// formula: the richest active bracket's upper bound when finite, else that
// bracket's lower bound. Using the lower bound as an implicit cap for an
// unbounded top bracket is deliberate policy.
func maxMultiplierCap(brackets []*models.InterestBracket) decimal.Decimal {
	var richest *models.InterestBracket
	for _, bracket := range brackets {
		if !bracket.Active {
			continue
		}
		if richest == nil || bracket.MinMultiplier.GreaterThan(richest.MinMultiplier) {
			richest = bracket
		}
	}
	if richest == nil {
		return decimal.Zero
	}
	if richest.IsUnbounded() {
		return richest.MinMultiplier
	}
	return *richest.MaxMultiplier
}
