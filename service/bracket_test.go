package service

import (
	"testing"

	"fundpool/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func bracket(min, max, rate string) *models.InterestBracket {
	maxDec := decimal.RequireFromString(max)
	return &models.InterestBracket{
		MinMultiplier: decimal.RequireFromString(min),
		MaxMultiplier: &maxDec,
		Rate:          decimal.RequireFromString(rate),
		Active:        true,
	}
}

func unboundedBracket(min, rate string) *models.InterestBracket {
	return &models.InterestBracket{
		MinMultiplier: decimal.RequireFromString(min),
		Rate:          decimal.RequireFromString(rate),
		Active:        true,
	}
}

func TestResolveRate(t *testing.T) {
	brackets := []*models.InterestBracket{
		bracket("0", "1", "9"),
		bracket("1", "2", "9.5"),
		bracket("2", "3", "10"),
	}

	t.Run("multiplier inside bracket", func(t *testing.T) {
		rate := ResolveRate(brackets, decimal.RequireFromString("1.5"))
		assert.True(t, rate.Equal(decimal.RequireFromString("9.5")))
	})

	t.Run("upper bound is inclusive", func(t *testing.T) {
		rate := ResolveRate(brackets, decimal.RequireFromString("2"))
		assert.True(t, rate.Equal(decimal.RequireFromString("9.5")))
	})

	t.Run("just above bound falls into next bracket", func(t *testing.T) {
		rate := ResolveRate(brackets, decimal.RequireFromString("2.0001"))
		assert.True(t, rate.Equal(decimal.RequireFromString("10")))
	})

	t.Run("no match falls back to default", func(t *testing.T) {
		rate := ResolveRate(brackets, decimal.RequireFromString("5"))
		assert.True(t, rate.Equal(DefaultInterestRate))
	})

	t.Run("inactive brackets are skipped", func(t *testing.T) {
		inactive := bracket("0", "10", "1")
		inactive.Active = false
		rate := ResolveRate([]*models.InterestBracket{inactive}, decimal.RequireFromString("1.5"))
		assert.True(t, rate.Equal(DefaultInterestRate))
	})

	t.Run("unbounded top bracket matches any higher multiplier", func(t *testing.T) {
		withTop := append(brackets, unboundedBracket("3", "11"))
		rate := ResolveRate(withTop, decimal.RequireFromString("50"))
		assert.True(t, rate.Equal(decimal.RequireFromString("11")))
	})
}

func TestMaxMultiplierCap(t *testing.T) {
	t.Run("bounded richest bracket uses its upper bound", func(t *testing.T) {
		brackets := []*models.InterestBracket{
			bracket("0", "1", "9"),
			bracket("1", "2", "9.5"),
			bracket("2", "3", "10"),
		}
		multiplierCap := maxMultiplierCap(brackets)
		assert.True(t, multiplierCap.Equal(decimal.RequireFromString("3")))
	})

	t.Run("unbounded richest bracket uses its lower bound", func(t *testing.T) {
		brackets := []*models.InterestBracket{
			bracket("0", "2", "9"),
			unboundedBracket("11", "12"),
		}
		multiplierCap := maxMultiplierCap(brackets)
		assert.True(t, multiplierCap.Equal(decimal.RequireFromString("11")))
	})

	t.Run("no active brackets yields zero cap", func(t *testing.T) {
		multiplierCap := maxMultiplierCap(nil)
		assert.True(t, multiplierCap.IsZero())
	})
}
