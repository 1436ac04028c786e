package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/models"
)

// FundLedgerRepository implements the FundLedgerRepository interface
type FundLedgerRepository struct {
	q queryable
}

// NewFundLedgerRepository creates a new fund ledger repository
func NewFundLedgerRepository(db *database.DB) *FundLedgerRepository {
	return &FundLedgerRepository{q: db.Pool}
}

// newFundLedgerRepositoryWithTx creates a new fund ledger repository with a transaction
func newFundLedgerRepositoryWithTx(tx queryable) *FundLedgerRepository {
	return &FundLedgerRepository{q: tx}
}

// GetBalance retrieves the current fund ledger balance. The single balance
// row is seeded by migration.
func (r *FundLedgerRepository) GetBalance(ctx context.Context) (*models.FundLedgerBalance, error) {
	return r.getBalance(ctx, `SELECT id, balance, updated_at FROM fund_ledger_balance LIMIT 1`)
}

// GetBalanceForUpdate retrieves the balance row and locks it for the
// duration of the transaction
func (r *FundLedgerRepository) GetBalanceForUpdate(ctx context.Context) (*models.FundLedgerBalance, error) {
	return r.getBalance(ctx, `SELECT id, balance, updated_at FROM fund_ledger_balance LIMIT 1 FOR UPDATE`)
}

func (r *FundLedgerRepository) getBalance(ctx context.Context, query string) (*models.FundLedgerBalance, error) {
	var balance models.FundLedgerBalance
	err := r.q.QueryRow(ctx, query).Scan(&balance.ID, &balance.Balance, &balance.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get fund ledger balance: %w", err)
	}
	return &balance, nil
}

// UpdateBalance writes a new balance
func (r *FundLedgerRepository) UpdateBalance(ctx context.Context, balance *models.FundLedgerBalance) error {
	query := `UPDATE fund_ledger_balance SET balance = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.Exec(ctx, query, balance.Balance, balance.ID)
	if err != nil {
		return fmt.Errorf("failed to update fund ledger balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("fund ledger balance row %d not found", balance.ID)
	}

	return nil
}

// AppendTransaction appends one ledger transaction
func (r *FundLedgerRepository) AppendTransaction(ctx context.Context, txn *models.FundLedgerTransaction) error {
	query := `
		INSERT INTO fund_ledger_transactions (
			type, amount, resulting_balance, interest_entry_id, description
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.Type,
		txn.Amount,
		txn.ResultingBalance,
		txn.InterestEntryID,
		txn.Description,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append fund ledger transaction: %w", err)
	}

	return nil
}

// GetTransactions returns ledger transactions, newest first
func (r *FundLedgerRepository) GetTransactions(ctx context.Context, limit int) ([]*models.FundLedgerTransaction, error) {
	query := `
		SELECT id, type, amount, resulting_balance, interest_entry_id, description, created_at
		FROM fund_ledger_transactions
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get fund ledger transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.FundLedgerTransaction
	for rows.Next() {
		var txn models.FundLedgerTransaction
		err := rows.Scan(
			&txn.ID,
			&txn.Type,
			&txn.Amount,
			&txn.ResultingBalance,
			&txn.InterestEntryID,
			&txn.Description,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund ledger transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fund ledger transactions: %w", err)
	}

	return txns, nil
}
