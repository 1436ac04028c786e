package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LoanRepository implements the LoanRepository interface
type LoanRepository struct {
	q queryable
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *database.DB) *LoanRepository {
	return &LoanRepository{q: db.Pool}
}

// newLoanRepositoryWithTx creates a new loan repository with a transaction
func newLoanRepositoryWithTx(tx queryable) *LoanRepository {
	return &LoanRepository{q: tx}
}

const loanColumns = `
	id, member_id, principal, rate, multiplier,
	deposit_total_at_grant, pool_total_at_grant, outstanding_at_grant,
	disbursed_at, maturity_date, requested_start,
	installment_start_date, pre_installment_amount,
	outstanding_principal, interest_paid, status, completed_at,
	created_at, updated_at`

func scanLoan(row pgx.Row) (*models.Loan, error) {
	var loan models.Loan
	err := row.Scan(
		&loan.ID,
		&loan.MemberID,
		&loan.Principal,
		&loan.Rate,
		&loan.Multiplier,
		&loan.DepositTotalAtGrant,
		&loan.PoolTotalAtGrant,
		&loan.OutstandingAtGrant,
		&loan.DisbursedAt,
		&loan.MaturityDate,
		&loan.RequestedStart,
		&loan.InstallmentStartDate,
		&loan.PreInstallmentAmount,
		&loan.OutstandingPrincipal,
		&loan.InterestPaid,
		&loan.Status,
		&loan.CompletedAt,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Create creates a new loan
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (
			member_id, principal, rate, multiplier,
			deposit_total_at_grant, pool_total_at_grant, outstanding_at_grant,
			disbursed_at, maturity_date, requested_start,
			outstanding_principal, interest_paid, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		loan.MemberID,
		loan.Principal,
		loan.Rate,
		loan.Multiplier,
		loan.DepositTotalAtGrant,
		loan.PoolTotalAtGrant,
		loan.OutstandingAtGrant,
		loan.DisbursedAt,
		loan.MaturityDate,
		loan.RequestedStart,
		loan.OutstandingPrincipal,
		loan.InterestPaid,
		loan.Status,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan for member %d: %w", loan.MemberID, err)
	}

	return nil
}

// GetByID retrieves a loan by its ID
func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	query := `SELECT` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoan(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan %d: %w", id, err)
	}

	return loan, nil
}

// GetByIDForUpdate retrieves a loan and locks the row for the duration of
// the transaction
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Loan, error) {
	query := `SELECT` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	loan, err := scanLoan(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock loan %d: %w", id, err)
	}

	return loan, nil
}

// GetByMember returns all loans for a member, newest first
func (r *LoanRepository) GetByMember(ctx context.Context, memberID int64) ([]*models.Loan, error) {
	query := `SELECT` + loanColumns + ` FROM loans WHERE member_id = $1 ORDER BY disbursed_at DESC`

	rows, err := r.q.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans for member %d: %w", memberID, err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, nil
}

// CountActiveByMember returns the number of active loans for a member
func (r *LoanRepository) CountActiveByMember(ctx context.Context, memberID int64) (int, error) {
	query := `SELECT COUNT(*) FROM loans WHERE member_id = $1 AND status = 'active'`

	var count int
	if err := r.q.QueryRow(ctx, query, memberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active loans for member %d: %w", memberID, err)
	}

	return count, nil
}

// SumOutstandingByMember returns the outstanding principal across a member's
// active loans
func (r *LoanRepository) SumOutstandingByMember(ctx context.Context, memberID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(outstanding_principal), 0)
		FROM loans
		WHERE member_id = $1 AND status = 'active'
	`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, memberID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding for member %d: %w", memberID, err)
	}

	return total, nil
}

// Update updates a loan's mutable fields
func (r *LoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	query := `
		UPDATE loans
		SET installment_start_date = $1,
		    pre_installment_amount = $2,
		    outstanding_principal = $3,
		    interest_paid = $4,
		    status = $5,
		    completed_at = $6,
		    updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.q.Exec(ctx, query,
		loan.InstallmentStartDate,
		loan.PreInstallmentAmount,
		loan.OutstandingPrincipal,
		loan.InterestPaid,
		loan.Status,
		loan.CompletedAt,
		loan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan %d: %w", loan.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("loan %d not found", loan.ID)
	}

	return nil
}
