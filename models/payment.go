package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType represents the shape of a payment
type PaymentType string

const (
	PaymentTypePreInstallment PaymentType = "pre_installment"
	PaymentTypeInstallment    PaymentType = "installment"
	PaymentTypePrepayment     PaymentType = "prepayment"
)

// Payment is an append-only record of an applied payment with its
// principal/interest split and an optional link to the charge or entry it
// settles.
type Payment struct {
	ID               int64           `db:"id"`
	Reference        uuid.UUID       `db:"reference"`
	LoanID           int64           `db:"loan_id"`
	MemberID         int64           `db:"member_id"`
	Amount           decimal.Decimal `db:"amount"`
	PrincipalPortion decimal.Decimal `db:"principal_portion"`
	InterestPortion  decimal.Decimal `db:"interest_portion"`
	Type             PaymentType     `db:"type"`
	PaidAt           time.Time       `db:"paid_at"`
	ChargeID         *int64          `db:"charge_id"`
	EntryID          *int64          `db:"entry_id"`
	CreatedAt        time.Time       `db:"created_at"`
}

// PaymentTarget selects what a payment settles
type PaymentTarget struct {
	Type     PaymentType
	ChargeID *int64
	EntryID  *int64
}
