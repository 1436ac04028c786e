package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// Loan represents a disbursed loan against the pool. Rate, multiplier and
// the eligibility inputs are frozen at disbursement for audit; the mutable
// fields are outstanding principal, cumulative interest paid and status.
type Loan struct {
	ID                   int64           `db:"id"`
	MemberID             int64           `db:"member_id"`
	Principal            decimal.Decimal `db:"principal"`
	Rate                 decimal.Decimal `db:"rate"`
	Multiplier           decimal.Decimal `db:"multiplier"`
	DepositTotalAtGrant  decimal.Decimal `db:"deposit_total_at_grant"`
	PoolTotalAtGrant     decimal.Decimal `db:"pool_total_at_grant"`
	OutstandingAtGrant   decimal.Decimal `db:"outstanding_at_grant"`
	DisbursedAt          time.Time       `db:"disbursed_at"`
	MaturityDate         time.Time       `db:"maturity_date"`
	RequestedStart       *time.Time      `db:"requested_start"`
	InstallmentStartDate *time.Time      `db:"installment_start_date"`
	PreInstallmentAmount *decimal.Decimal `db:"pre_installment_amount"`
	OutstandingPrincipal decimal.Decimal `db:"outstanding_principal"`
	InterestPaid         decimal.Decimal `db:"interest_paid"`
	Status               LoanStatus      `db:"status"`
	CompletedAt          *time.Time      `db:"completed_at"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

// IsActive checks whether the loan still accepts payments
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// InstallmentsStarted checks whether the fixed installment phase has been
// activated. A nil start date means NotStarted.
func (l *Loan) InstallmentsStarted() bool {
	return l.InstallmentStartDate != nil
}

// LoanDetail is the outward-facing loan record with its nested schedule
type LoanDetail struct {
	Loan     *Loan
	Charge   *PreInstallmentCharge
	Entries  []*InstallmentEntry
	Payments []*Payment
}
