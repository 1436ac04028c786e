package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fundpool/database"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDatabase wraps a containerized postgres instance with a migrated
// schema and an open connection pool.
type TestDatabase struct {
	DB        *database.DB
	URL       string
	container *postgres.PostgresContainer
}

// SetupTestDatabase starts a postgres container, runs all migrations and
// returns a ready-to-use pool. The container and pool are torn down via
// t.Cleanup.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("fundpool_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.RunMigrationsWithURL(url); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db, err := database.NewConnection(ctx, url)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &TestDatabase{
		DB:        db,
		URL:       url,
		container: container,
	}

	t.Cleanup(func() {
		db.Close()
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	return testDB
}

// TruncateAll empties every table that tests write to, preserving the seeded
// settings and ledger balance rows.
func (td *TestDatabase) TruncateAll(t *testing.T) {
	t.Helper()

	tables := []string{
		"fund_ledger_transactions",
		"member_interest_shares",
		"interest_entries",
		"pool_snapshots",
		"payments",
		"installment_entries",
		"pre_installment_charges",
		"loans",
		"interest_brackets",
		"deposits",
		"members",
	}

	ctx := context.Background()
	err := td.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, table := range tables {
			if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		}
		_, err := tx.Exec(ctx, "UPDATE fund_ledger_balance SET balance = 0")
		return err
	})
	if err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
}
