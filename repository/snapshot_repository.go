package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"fundpool/database"
	"fundpool/models"

	"github.com/jackc/pgx/v5"
)

// SnapshotRepository implements the SnapshotRepository interface
type SnapshotRepository struct {
	q queryable
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{q: db.Pool}
}

// newSnapshotRepositoryWithTx creates a new snapshot repository with a transaction
func newSnapshotRepositoryWithTx(tx queryable) *SnapshotRepository {
	return &SnapshotRepository{q: tx}
}

// Create persists a finalized snapshot
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *models.PoolSnapshot) error {
	memberUnits, err := json.Marshal(snapshot.MemberUnits)
	if err != nil {
		return fmt.Errorf("failed to marshal member units: %w", err)
	}

	query := `
		INSERT INTO pool_snapshots (
			fund_month, label, pool_amount, unit_count, cumulative_units,
			member_units, finalized
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		snapshot.FundMonth,
		snapshot.Label,
		snapshot.PoolAmount,
		snapshot.UnitCount,
		snapshot.CumulativeUnits,
		memberUnits,
		snapshot.Finalized,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create snapshot for fund month %d: %w", snapshot.FundMonth, err)
	}

	return nil
}

// GetByMonth retrieves the snapshot for a fund month, nil when absent
func (r *SnapshotRepository) GetByMonth(ctx context.Context, fundMonth int) (*models.PoolSnapshot, error) {
	query := `
		SELECT id, fund_month, label, pool_amount, unit_count, cumulative_units,
		       member_units, finalized, created_at
		FROM pool_snapshots
		WHERE fund_month = $1
	`

	var snapshot models.PoolSnapshot
	var memberUnits []byte
	err := r.q.QueryRow(ctx, query, fundMonth).Scan(
		&snapshot.ID,
		&snapshot.FundMonth,
		&snapshot.Label,
		&snapshot.PoolAmount,
		&snapshot.UnitCount,
		&snapshot.CumulativeUnits,
		&memberUnits,
		&snapshot.Finalized,
		&snapshot.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot for fund month %d: %w", fundMonth, err)
	}

	if err := json.Unmarshal(memberUnits, &snapshot.MemberUnits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member units: %w", err)
	}

	return &snapshot, nil
}
