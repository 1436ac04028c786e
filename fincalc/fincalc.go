// Package fincalc implements the pure financial math of the fund engine:
// pre-installment compound interest and reducing-balance amortization.
// All persisted figures are decimals rounded to 2 places.
package fincalc

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DaysPerMonth is the fixed day-count convention for the pre-installment
// period. Calendar month lengths are deliberately ignored.
const DaysPerMonth = 30

var (
	hundred      = decimal.NewFromInt(100)
	twelve       = decimal.NewFromInt(12)
	monthDivisor = hundred.Mul(twelve)
)

// CompoundInterest computes the interest accrued on principal over the given
// number of days at an annual percentage rate, compounded monthly with
// 30-day months:
//
//	interest = P × (1 + r/100/12)^(days/30) − P
//
// The fractional exponent is evaluated in float64; only the final figure,
// rounded to 2 places, is returned.
func CompoundInterest(principal, annualRate decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	monthlyRate := annualRate.Div(monthDivisor).InexactFloat64()
	months := float64(days) / DaysPerMonth
	factor := math.Pow(1+monthlyRate, months)

	p := principal.InexactFloat64()
	return decimal.NewFromFloat(p*factor - p).Round(2)
}

// ScheduleLine is one period of a reducing-balance amortization schedule
type ScheduleLine struct {
	Sequence    int
	DueDate     time.Time
	Principal   decimal.Decimal
	Interest    decimal.Decimal
	Total       decimal.Decimal
	Outstanding decimal.Decimal
}

// Amortize generates a reducing-balance schedule for the principal at an
// annual percentage rate over the given number of months. Due dates step one
// calendar month per period starting the month after start. The final period
// absorbs all rounding residue so that outstanding ends at exactly zero and
// the principal components sum to the principal exactly.
func Amortize(principal, annualRate decimal.Decimal, months int, start time.Time) ([]ScheduleLine, error) {
	if months < 1 {
		return nil, fmt.Errorf("amortization requires at least one month, got %d", months)
	}
	if !principal.IsPositive() {
		return nil, fmt.Errorf("amortization requires a positive principal, got %s", principal)
	}

	monthlyRate := annualRate.Div(monthDivisor)
	payment := levelPayment(principal, monthlyRate, months)

	lines := make([]ScheduleLine, 0, months)
	outstanding := principal

	for i := 1; i <= months; i++ {
		interest := outstanding.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)
		if i == months {
			// Final period clears the balance exactly
			principalPart = outstanding
		}
		outstanding = outstanding.Sub(principalPart)

		lines = append(lines, ScheduleLine{
			Sequence:    i,
			DueDate:     start.AddDate(0, i, 0),
			Principal:   principalPart,
			Interest:    interest,
			Total:       principalPart.Add(interest),
			Outstanding: outstanding,
		})
	}

	return lines, nil
}

// levelPayment computes the constant monthly installment
// E = P·m·(1+m)^n / ((1+m)^n − 1), or P/n when the rate is zero.
func levelPayment(principal, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	if monthlyRate.IsZero() {
		return principal.Div(n).Round(2)
	}

	factor := monthlyRate.Add(decimal.NewFromInt(1)).Pow(n)
	numerator := principal.Mul(monthlyRate).Mul(factor)
	denominator := factor.Sub(decimal.NewFromInt(1))
	return numerator.Div(denominator).Round(2)
}
