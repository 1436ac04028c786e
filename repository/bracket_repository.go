package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"
)

// BracketRepository implements the BracketRepository interface
type BracketRepository struct {
	q queryable
}

// NewBracketRepository creates a new bracket repository
func NewBracketRepository(db *database.DB) *BracketRepository {
	return &BracketRepository{q: db.Pool}
}

// newBracketRepositoryWithTx creates a new bracket repository with a transaction
func newBracketRepositoryWithTx(tx queryable) *BracketRepository {
	return &BracketRepository{q: tx}
}

// GetActive returns active brackets ordered by min multiplier ascending
func (r *BracketRepository) GetActive(ctx context.Context) ([]*models.InterestBracket, error) {
	query := `
		SELECT id, min_multiplier, max_multiplier, rate, active, created_at
		FROM interest_brackets
		WHERE active = TRUE
		ORDER BY min_multiplier
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active brackets: %w", err)
	}
	defer rows.Close()

	var brackets []*models.InterestBracket
	for rows.Next() {
		var bracket models.InterestBracket
		err := rows.Scan(
			&bracket.ID,
			&bracket.MinMultiplier,
			&bracket.MaxMultiplier,
			&bracket.Rate,
			&bracket.Active,
			&bracket.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bracket: %w", err)
		}
		brackets = append(brackets, &bracket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brackets: %w", err)
	}

	return brackets, nil
}

// Create creates a new bracket
func (r *BracketRepository) Create(ctx context.Context, bracket *models.InterestBracket) error {
	query := `
		INSERT INTO interest_brackets (min_multiplier, max_multiplier, rate, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		bracket.MinMultiplier,
		bracket.MaxMultiplier,
		bracket.Rate,
		bracket.Active,
	).Scan(&bracket.ID, &bracket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bracket: %w", err)
	}

	return nil
}

// SetActive toggles a bracket's active flag
func (r *BracketRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE interest_brackets SET active = $1 WHERE id = $2`

	result, err := r.q.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to set bracket %d active=%t: %w", id, active, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bracket %d not found", id)
	}

	return nil
}
