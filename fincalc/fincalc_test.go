package fincalc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompoundInterest(t *testing.T) {
	t.Run("45 day gap at 9.5 percent", func(t *testing.T) {
		interest := CompoundInterest(decimal.NewFromInt(7000), decimal.NewFromFloat(9.5), 45)

		// P × (1 + 9.5/1200)^1.5 − P
		assert.Equal(t, "83.29", interest.StringFixed(2))
	})

	t.Run("exactly one 30-day month", func(t *testing.T) {
		interest := CompoundInterest(decimal.NewFromInt(12000), decimal.NewFromInt(12), 30)

		// One month at 1% monthly
		assert.Equal(t, "120.00", interest.StringFixed(2))
	})

	t.Run("zero days accrues nothing", func(t *testing.T) {
		interest := CompoundInterest(decimal.NewFromInt(7000), decimal.NewFromFloat(9.5), 0)
		assert.True(t, interest.IsZero())
	})

	t.Run("negative days accrues nothing", func(t *testing.T) {
		interest := CompoundInterest(decimal.NewFromInt(7000), decimal.NewFromFloat(9.5), -10)
		assert.True(t, interest.IsZero())
	})

	t.Run("zero principal accrues nothing", func(t *testing.T) {
		interest := CompoundInterest(decimal.Zero, decimal.NewFromFloat(9.5), 45)
		assert.True(t, interest.IsZero())
	})
}

func TestAmortize(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("10000 at 10 percent over 12 months", func(t *testing.T) {
		lines, err := Amortize(decimal.NewFromInt(10000), decimal.NewFromInt(10), 12, start)
		require.NoError(t, err)
		require.Len(t, lines, 12)

		// First period interest is the full principal at the monthly rate
		assert.Equal(t, "83.33", lines[0].Interest.StringFixed(2))

		// Principal components sum to the principal exactly
		sum := decimal.Zero
		for _, line := range lines {
			sum = sum.Add(line.Principal)
		}
		assert.True(t, sum.Equal(decimal.NewFromInt(10000)), "principal sum = %s", sum)

		// Final outstanding forced to zero
		assert.True(t, lines[11].Outstanding.IsZero())
	})

	t.Run("outstanding decreases monotonically", func(t *testing.T) {
		lines, err := Amortize(decimal.NewFromInt(10000), decimal.NewFromInt(10), 12, start)
		require.NoError(t, err)

		previous := decimal.NewFromInt(10000)
		for _, line := range lines {
			assert.True(t, line.Outstanding.LessThan(previous),
				"period %d outstanding %s not below %s", line.Sequence, line.Outstanding, previous)
			previous = line.Outstanding
		}
	})

	t.Run("due dates step one calendar month after start", func(t *testing.T) {
		lines, err := Amortize(decimal.NewFromInt(6000), decimal.NewFromInt(12), 3, start)
		require.NoError(t, err)
		require.Len(t, lines, 3)

		assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), lines[0].DueDate)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), lines[1].DueDate)
		assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), lines[2].DueDate)
	})

	t.Run("zero rate splits principal evenly", func(t *testing.T) {
		lines, err := Amortize(decimal.NewFromInt(1200), decimal.Zero, 12, start)
		require.NoError(t, err)
		require.Len(t, lines, 12)

		for _, line := range lines {
			assert.Equal(t, "100.00", line.Principal.StringFixed(2))
			assert.True(t, line.Interest.IsZero())
		}
		assert.True(t, lines[11].Outstanding.IsZero())
	})

	t.Run("single month clears in one payment", func(t *testing.T) {
		lines, err := Amortize(decimal.NewFromInt(5000), decimal.NewFromInt(10), 1, start)
		require.NoError(t, err)
		require.Len(t, lines, 1)

		assert.True(t, lines[0].Principal.Equal(decimal.NewFromInt(5000)))
		assert.True(t, lines[0].Outstanding.IsZero())
	})

	t.Run("rejects zero months", func(t *testing.T) {
		_, err := Amortize(decimal.NewFromInt(5000), decimal.NewFromInt(10), 0, start)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive principal", func(t *testing.T) {
		_, err := Amortize(decimal.Zero, decimal.NewFromInt(10), 12, start)
		assert.Error(t, err)
	})
}
