package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"

	"github.com/jackc/pgx/v5"
)

// MemberRepository implements the MemberRepository interface
type MemberRepository struct {
	q queryable
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{q: db.Pool}
}

// newMemberRepositoryWithTx creates a new member repository with a transaction
func newMemberRepositoryWithTx(tx queryable) *MemberRepository {
	return &MemberRepository{q: tx}
}

const memberColumns = `id, name, join_date, status, created_at, updated_at`

func scanMember(row pgx.Row) (*models.Member, error) {
	var member models.Member
	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.JoinDate,
		&member.Status,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByID retrieves a member by id
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	member, err := scanMember(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member %d: %w", id, err)
	}

	return member, nil
}

// GetByIDForUpdate retrieves a member by id and locks the row for the
// duration of the transaction
func (r *MemberRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1 FOR UPDATE`

	member, err := scanMember(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock member %d: %w", id, err)
	}

	return member, nil
}

// GetAll returns all members, optionally filtered by status
func (r *MemberRepository) GetAll(ctx context.Context, status *models.MemberStatus) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY id`
	args := []any{}
	if status != nil {
		query = `SELECT ` + memberColumns + ` FROM members WHERE status = $1 ORDER BY id`
		args = append(args, *status)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// Create creates a new member record
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (name, join_date, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, member.Name, member.JoinDate, member.Status).Scan(
		&member.ID,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member %s: %w", member.Name, err)
	}

	return nil
}
