package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"
)

// PaymentRepository implements the PaymentRepository interface
type PaymentRepository struct {
	q queryable
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

// newPaymentRepositoryWithTx creates a new payment repository with a transaction
func newPaymentRepositoryWithTx(tx queryable) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create creates a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (
			reference, loan_id, member_id, amount, principal_portion,
			interest_portion, type, paid_at, charge_id, entry_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		payment.Reference,
		payment.LoanID,
		payment.MemberID,
		payment.Amount,
		payment.PrincipalPortion,
		payment.InterestPortion,
		payment.Type,
		payment.PaidAt,
		payment.ChargeID,
		payment.EntryID,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment for loan %d: %w", payment.LoanID, err)
	}

	return nil
}

// GetByLoan returns all payments for a loan, oldest first
func (r *PaymentRepository) GetByLoan(ctx context.Context, loanID int64) ([]*models.Payment, error) {
	query := `
		SELECT id, reference, loan_id, member_id, amount, principal_portion,
		       interest_portion, type, paid_at, charge_id, entry_id, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY paid_at, id
	`

	rows, err := r.q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments for loan %d: %w", loanID, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var payment models.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.Reference,
			&payment.LoanID,
			&payment.MemberID,
			&payment.Amount,
			&payment.PrincipalPortion,
			&payment.InterestPortion,
			&payment.Type,
			&payment.PaidAt,
			&payment.ChargeID,
			&payment.EntryID,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
