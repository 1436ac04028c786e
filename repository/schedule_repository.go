package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"

	"github.com/jackc/pgx/v5"
)

// ScheduleRepository implements the ScheduleRepository interface
type ScheduleRepository struct {
	q queryable
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{q: db.Pool}
}

// newScheduleRepositoryWithTx creates a new schedule repository with a transaction
func newScheduleRepositoryWithTx(tx queryable) *ScheduleRepository {
	return &ScheduleRepository{q: tx}
}

const chargeColumns = `
	id, loan_id, period_start, period_end, days, principal, rate, interest,
	due_date, paid, paid_amount, paid_at, created_at`

func scanCharge(row pgx.Row) (*models.PreInstallmentCharge, error) {
	var charge models.PreInstallmentCharge
	err := row.Scan(
		&charge.ID,
		&charge.LoanID,
		&charge.PeriodStart,
		&charge.PeriodEnd,
		&charge.Days,
		&charge.Principal,
		&charge.Rate,
		&charge.Interest,
		&charge.DueDate,
		&charge.Paid,
		&charge.PaidAmount,
		&charge.PaidAt,
		&charge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

const entryColumns = `
	id, loan_id, sequence, due_date, principal_component, interest_component,
	total, outstanding_after, paid, paid_amount, paid_at, created_at`

func scanEntry(row pgx.Row) (*models.InstallmentEntry, error) {
	var entry models.InstallmentEntry
	err := row.Scan(
		&entry.ID,
		&entry.LoanID,
		&entry.Sequence,
		&entry.DueDate,
		&entry.PrincipalComponent,
		&entry.InterestComponent,
		&entry.Total,
		&entry.OutstandingAfter,
		&entry.Paid,
		&entry.PaidAmount,
		&entry.PaidAt,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateCharge persists the pre-installment charge for a loan
func (r *ScheduleRepository) CreateCharge(ctx context.Context, charge *models.PreInstallmentCharge) error {
	query := `
		INSERT INTO pre_installment_charges (
			loan_id, period_start, period_end, days, principal, rate, interest, due_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		charge.LoanID,
		charge.PeriodStart,
		charge.PeriodEnd,
		charge.Days,
		charge.Principal,
		charge.Rate,
		charge.Interest,
		charge.DueDate,
	).Scan(&charge.ID, &charge.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create charge for loan %d: %w", charge.LoanID, err)
	}

	return nil
}

// GetChargeByID retrieves a charge by id
func (r *ScheduleRepository) GetChargeByID(ctx context.Context, id int64) (*models.PreInstallmentCharge, error) {
	query := `SELECT` + chargeColumns + ` FROM pre_installment_charges WHERE id = $1`

	charge, err := scanCharge(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get charge %d: %w", id, err)
	}

	return charge, nil
}

// GetChargeByLoan retrieves the charge for a loan, nil when none exists
func (r *ScheduleRepository) GetChargeByLoan(ctx context.Context, loanID int64) (*models.PreInstallmentCharge, error) {
	query := `SELECT` + chargeColumns + ` FROM pre_installment_charges WHERE loan_id = $1`

	charge, err := scanCharge(r.q.QueryRow(ctx, query, loanID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get charge for loan %d: %w", loanID, err)
	}

	return charge, nil
}

// UpdateCharge updates a charge's paid-state fields
func (r *ScheduleRepository) UpdateCharge(ctx context.Context, charge *models.PreInstallmentCharge) error {
	query := `
		UPDATE pre_installment_charges
		SET paid = $1, paid_amount = $2, paid_at = $3
		WHERE id = $4
	`

	result, err := r.q.Exec(ctx, query, charge.Paid, charge.PaidAmount, charge.PaidAt, charge.ID)
	if err != nil {
		return fmt.Errorf("failed to update charge %d: %w", charge.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("charge %d not found", charge.ID)
	}

	return nil
}

// CreateEntries persists a batch of installment entries
func (r *ScheduleRepository) CreateEntries(ctx context.Context, entries []*models.InstallmentEntry) error {
	query := `
		INSERT INTO installment_entries (
			loan_id, sequence, due_date, principal_component, interest_component,
			total, outstanding_after
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	for _, entry := range entries {
		err := r.q.QueryRow(ctx, query,
			entry.LoanID,
			entry.Sequence,
			entry.DueDate,
			entry.PrincipalComponent,
			entry.InterestComponent,
			entry.Total,
			entry.OutstandingAfter,
		).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create installment entry %d for loan %d: %w",
				entry.Sequence, entry.LoanID, err)
		}
	}

	return nil
}

// GetEntryByID retrieves an installment entry by id
func (r *ScheduleRepository) GetEntryByID(ctx context.Context, id int64) (*models.InstallmentEntry, error) {
	query := `SELECT` + entryColumns + ` FROM installment_entries WHERE id = $1`

	entry, err := scanEntry(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get installment entry %d: %w", id, err)
	}

	return entry, nil
}

// GetEntriesByLoan returns a loan's entries ordered by sequence
func (r *ScheduleRepository) GetEntriesByLoan(ctx context.Context, loanID int64) ([]*models.InstallmentEntry, error) {
	query := `SELECT` + entryColumns + ` FROM installment_entries WHERE loan_id = $1 ORDER BY sequence`

	rows, err := r.q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installment entries for loan %d: %w", loanID, err)
	}
	defer rows.Close()

	var entries []*models.InstallmentEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installment entries: %w", err)
	}

	return entries, nil
}

// UpdateEntry updates an entry's paid-state fields
func (r *ScheduleRepository) UpdateEntry(ctx context.Context, entry *models.InstallmentEntry) error {
	query := `
		UPDATE installment_entries
		SET paid = $1, paid_amount = $2, paid_at = $3
		WHERE id = $4
	`

	result, err := r.q.Exec(ctx, query, entry.Paid, entry.PaidAmount, entry.PaidAt, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update installment entry %d: %w", entry.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("installment entry %d not found", entry.ID)
	}

	return nil
}
