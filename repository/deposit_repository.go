package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"

	"github.com/shopspring/decimal"
)

// DepositRepository implements the DepositRepository interface
type DepositRepository struct {
	q queryable
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *database.DB) *DepositRepository {
	return &DepositRepository{q: db.Pool}
}

// newDepositRepositoryWithTx creates a new deposit repository with a transaction
func newDepositRepositoryWithTx(tx queryable) *DepositRepository {
	return &DepositRepository{q: tx}
}

// Create persists a deposit with its computed running total
func (r *DepositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	query := `
		INSERT INTO deposits (member_id, amount, member_month, deposit_date, running_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		deposit.MemberID,
		deposit.Amount,
		deposit.MemberMonth,
		deposit.DepositDate,
		deposit.RunningTotal,
	).Scan(&deposit.ID, &deposit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit for member %d: %w", deposit.MemberID, err)
	}

	return nil
}

// GetByMember returns a member's deposits ordered by member month
func (r *DepositRepository) GetByMember(ctx context.Context, memberID int64) ([]*models.Deposit, error) {
	query := `
		SELECT id, member_id, amount, member_month, deposit_date, running_total, created_at
		FROM deposits
		WHERE member_id = $1
		ORDER BY member_month, id
	`

	rows, err := r.q.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposits for member %d: %w", memberID, err)
	}
	defer rows.Close()

	var deposits []*models.Deposit
	for rows.Next() {
		var deposit models.Deposit
		err := rows.Scan(
			&deposit.ID,
			&deposit.MemberID,
			&deposit.Amount,
			&deposit.MemberMonth,
			&deposit.DepositDate,
			&deposit.RunningTotal,
			&deposit.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, &deposit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deposits: %w", err)
	}

	return deposits, nil
}

// TotalByMember returns the sum of a member's deposits
func (r *DepositRepository) TotalByMember(ctx context.Context, memberID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE member_id = $1`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, memberID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum deposits for member %d: %w", memberID, err)
	}

	return total, nil
}

// TotalPool returns the sum of all members' deposits
func (r *DepositRepository) TotalPool(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM deposits`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pool deposits: %w", err)
	}

	return total, nil
}

// TotalsByMember returns every member's deposit sum keyed by member id
func (r *DepositRepository) TotalsByMember(ctx context.Context) (map[int64]decimal.Decimal, error) {
	query := `
		SELECT member_id, SUM(amount)
		FROM deposits
		GROUP BY member_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sum deposits by member: %w", err)
	}
	defer rows.Close()

	totals := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var memberID int64
		var total decimal.Decimal
		if err := rows.Scan(&memberID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan member total: %w", err)
		}
		totals[memberID] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member totals: %w", err)
	}

	return totals, nil
}

// UpdateRunningTotal rewrites the running total of a single deposit row
func (r *DepositRepository) UpdateRunningTotal(ctx context.Context, depositID int64, total decimal.Decimal) error {
	query := `UPDATE deposits SET running_total = $1 WHERE id = $2`

	result, err := r.q.Exec(ctx, query, total, depositID)
	if err != nil {
		return fmt.Errorf("failed to update running total for deposit %d: %w", depositID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("deposit %d not found", depositID)
	}

	return nil
}
