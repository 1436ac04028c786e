package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"

	"github.com/jackc/pgx/v5"
)

// SettingRepository implements the SettingRepository interface
type SettingRepository struct {
	q queryable
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *database.DB) *SettingRepository {
	return &SettingRepository{q: db.Pool}
}

// newSettingRepositoryWithTx creates a new setting repository with a transaction
func newSettingRepositoryWithTx(tx queryable) *SettingRepository {
	return &SettingRepository{q: tx}
}

// Get retrieves a setting by key
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.FundSetting, error) {
	query := `SELECT id, key, value, updated_at FROM fund_settings WHERE key = $1`

	var setting models.FundSetting
	err := r.q.QueryRow(ctx, query, key).Scan(
		&setting.ID,
		&setting.Key,
		&setting.Value,
		&setting.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return &setting, nil
}

// GetAll returns all settings
func (r *SettingRepository) GetAll(ctx context.Context) ([]*models.FundSetting, error) {
	query := `SELECT id, key, value, updated_at FROM fund_settings ORDER BY key`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	var settings []*models.FundSetting
	for rows.Next() {
		var setting models.FundSetting
		if err := rows.Scan(&setting.ID, &setting.Key, &setting.Value, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, &setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return settings, nil
}

// Upsert creates or replaces a setting value
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO fund_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}

	return nil
}
