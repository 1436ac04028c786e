package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PreInstallmentCharge is the single compound-interest charge covering the
// gap between disbursement and the start of fixed installments. Created
// exactly once per installment-start activation.
type PreInstallmentCharge struct {
	ID          int64            `db:"id"`
	LoanID      int64            `db:"loan_id"`
	PeriodStart time.Time        `db:"period_start"`
	PeriodEnd   time.Time        `db:"period_end"`
	Days        int              `db:"days"`
	Principal   decimal.Decimal  `db:"principal"`
	Rate        decimal.Decimal  `db:"rate"`
	Interest    decimal.Decimal  `db:"interest"`
	DueDate     time.Time        `db:"due_date"`
	Paid        bool             `db:"paid"`
	PaidAmount  *decimal.Decimal `db:"paid_amount"`
	PaidAt      *time.Time       `db:"paid_at"`
	CreatedAt   time.Time        `db:"created_at"`
}

// InstallmentEntry is one period of the reducing-balance schedule.
// Immutable except for the paid-state fields.
type InstallmentEntry struct {
	ID                 int64            `db:"id"`
	LoanID             int64            `db:"loan_id"`
	Sequence           int              `db:"sequence"`
	DueDate            time.Time        `db:"due_date"`
	PrincipalComponent decimal.Decimal  `db:"principal_component"`
	InterestComponent  decimal.Decimal  `db:"interest_component"`
	Total              decimal.Decimal  `db:"total"`
	OutstandingAfter   decimal.Decimal  `db:"outstanding_after"`
	Paid               bool             `db:"paid"`
	PaidAmount         *decimal.Decimal `db:"paid_amount"`
	PaidAt             *time.Time       `db:"paid_at"`
	CreatedAt          time.Time        `db:"created_at"`
}

// LoanSchedule bundles the charge and entries generated by an
// installment-start activation.
type LoanSchedule struct {
	Charge  *PreInstallmentCharge
	Entries []*InstallmentEntry
}
