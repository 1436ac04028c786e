package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"

	"github.com/jackc/pgx/v5"
)

// DistributionRepository implements the DistributionRepository interface
type DistributionRepository struct {
	q queryable
}

// NewDistributionRepository creates a new distribution repository
func NewDistributionRepository(db *database.DB) *DistributionRepository {
	return &DistributionRepository{q: db.Pool}
}

// newDistributionRepositoryWithTx creates a new distribution repository with a transaction
func newDistributionRepositoryWithTx(tx queryable) *DistributionRepository {
	return &DistributionRepository{q: tx}
}

// CreateEntry creates a new interest entry
func (r *DistributionRepository) CreateEntry(ctx context.Context, entry *models.InterestEntry) error {
	query := `
		INSERT INTO interest_entries (
			earned_month, source, description, loan_id, pool_source_month, amount
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.EarnedMonth,
		entry.Source,
		entry.Description,
		entry.LoanID,
		entry.PoolSourceMonth,
		entry.Amount,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interest entry: %w", err)
	}

	return nil
}

// CreateShares persists a batch of member shares for one entry
func (r *DistributionRepository) CreateShares(ctx context.Context, shares []*models.MemberInterestShare) error {
	query := `
		INSERT INTO member_interest_shares (
			member_id, interest_entry_id, member_units, total_units,
			share_percent, share_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	for _, share := range shares {
		err := r.q.QueryRow(ctx, query,
			share.MemberID,
			share.InterestEntryID,
			share.MemberUnits,
			share.TotalUnits,
			share.SharePercent,
			share.ShareAmount,
		).Scan(&share.ID, &share.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create share for member %d: %w", share.MemberID, err)
		}
	}

	return nil
}

const entryCols = `id, earned_month, source, description, loan_id, pool_source_month, amount, created_at`

// GetEntryByID retrieves an interest entry by id
func (r *DistributionRepository) GetEntryByID(ctx context.Context, id int64) (*models.InterestEntry, error) {
	query := `SELECT ` + entryCols + ` FROM interest_entries WHERE id = $1`

	var entry models.InterestEntry
	err := r.q.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.EarnedMonth,
		&entry.Source,
		&entry.Description,
		&entry.LoanID,
		&entry.PoolSourceMonth,
		&entry.Amount,
		&entry.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interest entry %d: %w", id, err)
	}

	return &entry, nil
}

const shareCols = `id, member_id, interest_entry_id, member_units, total_units, share_percent, share_amount, created_at`

func scanShare(row pgx.Row) (*models.MemberInterestShare, error) {
	var share models.MemberInterestShare
	err := row.Scan(
		&share.ID,
		&share.MemberID,
		&share.InterestEntryID,
		&share.MemberUnits,
		&share.TotalUnits,
		&share.SharePercent,
		&share.ShareAmount,
		&share.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// GetSharesByEntry returns all shares for an entry
func (r *DistributionRepository) GetSharesByEntry(ctx context.Context, entryID int64) ([]*models.MemberInterestShare, error) {
	query := `SELECT ` + shareCols + ` FROM member_interest_shares WHERE interest_entry_id = $1 ORDER BY member_id`

	rows, err := r.q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares for entry %d: %w", entryID, err)
	}
	defer rows.Close()

	var shares []*models.MemberInterestShare
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}

// GetSharesByMember returns a member's shares, newest first
func (r *DistributionRepository) GetSharesByMember(ctx context.Context, memberID int64) ([]*models.MemberInterestShare, error) {
	query := `SELECT ` + shareCols + ` FROM member_interest_shares WHERE member_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares for member %d: %w", memberID, err)
	}
	defer rows.Close()

	var shares []*models.MemberInterestShare
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}
