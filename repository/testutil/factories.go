package testutil

import (
	"time"

	"fundpool/models"

	"github.com/shopspring/decimal"
)

// CreateTestMember creates an active test member with default values
func CreateTestMember(name string) *models.Member {
	return &models.Member{
		Name:     name,
		JoinDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:   models.MemberStatusActive,
	}
}

// CreateTestMemberWithStatus creates a test member with a specific status
func CreateTestMemberWithStatus(name string, status models.MemberStatus) *models.Member {
	member := CreateTestMember(name)
	member.Status = status
	return member
}

// CreateTestDeposit creates a test deposit for a member month
func CreateTestDeposit(memberID int64, memberMonth int, amount decimal.Decimal, runningTotal decimal.Decimal) *models.Deposit {
	return &models.Deposit{
		MemberID:     memberID,
		Amount:       amount,
		MemberMonth:  memberMonth,
		DepositDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, memberMonth-1, 0),
		RunningTotal: runningTotal,
	}
}

// CreateTestBracket creates an active bracket with a finite upper bound
func CreateTestBracket(min, max, rate string) *models.InterestBracket {
	maxDec := decimal.RequireFromString(max)
	return &models.InterestBracket{
		MinMultiplier: decimal.RequireFromString(min),
		MaxMultiplier: &maxDec,
		Rate:          decimal.RequireFromString(rate),
		Active:        true,
	}
}

// CreateTestUnboundedBracket creates an active bracket with no upper bound
func CreateTestUnboundedBracket(min, rate string) *models.InterestBracket {
	return &models.InterestBracket{
		MinMultiplier: decimal.RequireFromString(min),
		Rate:          decimal.RequireFromString(rate),
		Active:        true,
	}
}

// CreateTestLoan creates an active test loan with frozen eligibility inputs
func CreateTestLoan(memberID int64, principal decimal.Decimal, rate decimal.Decimal) *models.Loan {
	disbursed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &models.Loan{
		MemberID:             memberID,
		Principal:            principal,
		Rate:                 rate,
		Multiplier:           decimal.NewFromInt(1),
		DepositTotalAtGrant:  principal,
		PoolTotalAtGrant:     principal.Mul(decimal.NewFromInt(10)),
		OutstandingAtGrant:   decimal.Zero,
		DisbursedAt:          disbursed,
		MaturityDate:         disbursed.AddDate(3, 0, 0),
		OutstandingPrincipal: principal,
		InterestPaid:         decimal.Zero,
		Status:               models.LoanStatusActive,
	}
}

// CreateTestSnapshot creates a finalized snapshot with the given member units
func CreateTestSnapshot(fundMonth int, memberUnits map[int64]int64, unit decimal.Decimal) *models.PoolSnapshot {
	var total int64
	for _, units := range memberUnits {
		total += units
	}
	return &models.PoolSnapshot{
		FundMonth:       fundMonth,
		Label:           "test snapshot",
		PoolAmount:      unit.Mul(decimal.NewFromInt(total)),
		UnitCount:       total,
		CumulativeUnits: total,
		MemberUnits:     memberUnits,
		Finalized:       true,
	}
}
