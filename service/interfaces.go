package service

import (
	"context"
	"time"

	"fundpool/events"
	"fundpool/models"

	"github.com/shopspring/decimal"
)

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	// GetByID retrieves a member by id
	GetByID(ctx context.Context, id int64) (*models.Member, error)

	// GetByIDForUpdate retrieves a member by id and locks the row for the
	// duration of the transaction. Used to serialize per-member mutations.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Member, error)

	// GetAll returns all members, optionally filtered by status
	GetAll(ctx context.Context, status *models.MemberStatus) ([]*models.Member, error)

	// Create creates a new member record
	Create(ctx context.Context, member *models.Member) error
}

// DepositRepository defines the interface for deposit data access
type DepositRepository interface {
	// Create persists a deposit with its computed running total
	Create(ctx context.Context, deposit *models.Deposit) error

	// GetByMember returns a member's deposits ordered by member month
	GetByMember(ctx context.Context, memberID int64) ([]*models.Deposit, error)

	// TotalByMember returns the sum of a member's deposits
	TotalByMember(ctx context.Context, memberID int64) (decimal.Decimal, error)

	// TotalPool returns the sum of all members' deposits
	TotalPool(ctx context.Context) (decimal.Decimal, error)

	// TotalsByMember returns every member's deposit sum keyed by member id
	TotalsByMember(ctx context.Context) (map[int64]decimal.Decimal, error)

	// UpdateRunningTotal rewrites the running total of a single deposit row
	UpdateRunningTotal(ctx context.Context, depositID int64, total decimal.Decimal) error
}

// BracketRepository defines the interface for interest bracket data access
type BracketRepository interface {
	// GetActive returns active brackets ordered by min multiplier ascending
	GetActive(ctx context.Context) ([]*models.InterestBracket, error)

	// Create creates a new bracket
	Create(ctx context.Context, bracket *models.InterestBracket) error

	// SetActive toggles a bracket's active flag
	SetActive(ctx context.Context, id int64, active bool) error
}

// SettingRepository defines the interface for fund setting data access
type SettingRepository interface {
	// Get retrieves a setting by key
	Get(ctx context.Context, key string) (*models.FundSetting, error)

	// GetAll returns all settings
	GetAll(ctx context.Context) ([]*models.FundSetting, error)

	// Upsert creates or replaces a setting value
	Upsert(ctx context.Context, key, value string) error
}

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *models.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id int64) (*models.Loan, error)

	// GetByIDForUpdate retrieves a loan and locks the row for the duration
	// of the transaction. Used to serialize payments against one loan.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Loan, error)

	// GetByMember returns all loans for a member, newest first
	GetByMember(ctx context.Context, memberID int64) ([]*models.Loan, error)

	// CountActiveByMember returns the number of active loans for a member
	CountActiveByMember(ctx context.Context, memberID int64) (int, error)

	// SumOutstandingByMember returns the outstanding principal across a
	// member's active loans
	SumOutstandingByMember(ctx context.Context, memberID int64) (decimal.Decimal, error)

	// Update updates a loan's mutable fields
	Update(ctx context.Context, loan *models.Loan) error
}

// ScheduleRepository defines the interface for charge and installment data access
type ScheduleRepository interface {
	// CreateCharge persists the pre-installment charge for a loan
	CreateCharge(ctx context.Context, charge *models.PreInstallmentCharge) error

	// GetChargeByID retrieves a charge by id
	GetChargeByID(ctx context.Context, id int64) (*models.PreInstallmentCharge, error)

	// GetChargeByLoan retrieves the charge for a loan, nil when none exists
	GetChargeByLoan(ctx context.Context, loanID int64) (*models.PreInstallmentCharge, error)

	// UpdateCharge updates a charge's paid-state fields
	UpdateCharge(ctx context.Context, charge *models.PreInstallmentCharge) error

	// CreateEntries persists a batch of installment entries
	CreateEntries(ctx context.Context, entries []*models.InstallmentEntry) error

	// GetEntryByID retrieves an installment entry by id
	GetEntryByID(ctx context.Context, id int64) (*models.InstallmentEntry, error)

	// GetEntriesByLoan returns a loan's entries ordered by sequence
	GetEntriesByLoan(ctx context.Context, loanID int64) ([]*models.InstallmentEntry, error)

	// UpdateEntry updates an entry's paid-state fields
	UpdateEntry(ctx context.Context, entry *models.InstallmentEntry) error
}

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *models.Payment) error

	// GetByLoan returns all payments for a loan, oldest first
	GetByLoan(ctx context.Context, loanID int64) ([]*models.Payment, error)
}

// SnapshotRepository defines the interface for pool snapshot data access
type SnapshotRepository interface {
	// Create persists a finalized snapshot
	Create(ctx context.Context, snapshot *models.PoolSnapshot) error

	// GetByMonth retrieves the snapshot for a fund month, nil when absent
	GetByMonth(ctx context.Context, fundMonth int) (*models.PoolSnapshot, error)
}

// DistributionRepository defines the interface for interest entry and share data access
type DistributionRepository interface {
	// CreateEntry creates a new interest entry
	CreateEntry(ctx context.Context, entry *models.InterestEntry) error

	// CreateShares persists a batch of member shares for one entry
	CreateShares(ctx context.Context, shares []*models.MemberInterestShare) error

	// GetEntryByID retrieves an interest entry by id
	GetEntryByID(ctx context.Context, id int64) (*models.InterestEntry, error)

	// GetSharesByEntry returns all shares for an entry
	GetSharesByEntry(ctx context.Context, entryID int64) ([]*models.MemberInterestShare, error)

	// GetSharesByMember returns a member's shares, newest first
	GetSharesByMember(ctx context.Context, memberID int64) ([]*models.MemberInterestShare, error)
}

// FundLedgerRepository defines the interface for the fund balance ledger
type FundLedgerRepository interface {
	// GetBalance retrieves the current fund ledger balance
	GetBalance(ctx context.Context) (*models.FundLedgerBalance, error)

	// GetBalanceForUpdate retrieves the balance row and locks it for the
	// duration of the transaction
	GetBalanceForUpdate(ctx context.Context) (*models.FundLedgerBalance, error)

	// UpdateBalance writes a new balance
	UpdateBalance(ctx context.Context, balance *models.FundLedgerBalance) error

	// AppendTransaction appends one ledger transaction
	AppendTransaction(ctx context.Context, txn *models.FundLedgerTransaction) error

	// GetTransactions returns ledger transactions, newest first
	GetTransactions(ctx context.Context, limit int) ([]*models.FundLedgerTransaction, error)
}

// DepositService defines the interface for deposit operations
type DepositService interface {
	// RecordDeposit validates and records a member contribution
	RecordDeposit(ctx context.Context, memberID int64, amount decimal.Decimal, memberMonth int, date time.Time) (*models.Deposit, error)

	// Recalculate replays a member's deposits in member-month order and
	// rewrites running totals from scratch
	Recalculate(ctx context.Context, memberID int64) error

	// History returns a member's deposits ordered by member month
	History(ctx context.Context, memberID int64) ([]*models.Deposit, error)
}

// EligibilityService defines the interface for eligibility computation
type EligibilityService interface {
	// Eligibility computes the member's maximum borrowable amount
	Eligibility(ctx context.Context, memberID int64) (*models.EligibilitySummary, error)
}

// LoanService defines the interface for loan lifecycle operations
type LoanService interface {
	// RequestLoan creates a loan against eligibility, re-checked atomically
	// with creation
	RequestLoan(ctx context.Context, memberID int64, amount decimal.Decimal, requestedStart *time.Time) (*models.Loan, error)

	// StartInstallments activates the fixed installment phase: one
	// pre-installment charge over the disbursement gap plus the amortized
	// schedule, persisted with the loan update in one transaction
	StartInstallments(ctx context.Context, loanID int64, startDate time.Time, installmentCount int) (*models.LoanSchedule, error)

	// ApplyPayment applies a pre-installment, installment or prepayment
	// amount to a loan
	ApplyPayment(ctx context.Context, loanID int64, amount decimal.Decimal, date time.Time, target models.PaymentTarget) (*models.Payment, error)

	// MarkDefaulted transitions an active loan to defaulted (administrative)
	MarkDefaulted(ctx context.Context, loanID int64) error

	// GetLoanDetail returns a loan with its nested charge, schedule and payments
	GetLoanDetail(ctx context.Context, loanID int64) (*models.LoanDetail, error)
}

// DistributionService defines the interface for snapshot and distribution operations
type DistributionService interface {
	// CreateSnapshot freezes the current pool composition for a fund month
	CreateSnapshot(ctx context.Context, fundMonth int, label string) (*models.PoolSnapshot, error)

	// DistributeInterest splits an earned amount pro-rata across the frozen
	// snapshot for poolSourceMonth and credits the fund ledger
	DistributeInterest(ctx context.Context, earnedMonth int, source models.InterestSource, description string, amount decimal.Decimal, poolSourceMonth int, loanID *int64) (*models.DistributionResult, error)

	// GetDistributionReport returns an entry with its shares and residual
	GetDistributionReport(ctx context.Context, entryID int64) (*models.DistributionResult, error)

	// GetLedgerHistory returns fund ledger transactions, newest first
	GetLedgerHistory(ctx context.Context, limit int) ([]*models.FundLedgerTransaction, error)
}

// SettingsService defines the interface for fund configuration
type SettingsService interface {
	// FundConfig returns the typed fund-wide tunables with defaults applied
	FundConfig(ctx context.Context) (*models.FundConfig, error)

	// UpdateSetting writes a single tunable
	UpdateSetting(ctx context.Context, key, value string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	MemberRepository() MemberRepository
	DepositRepository() DepositRepository
	BracketRepository() BracketRepository
	SettingRepository() SettingRepository
	LoanRepository() LoanRepository
	ScheduleRepository() ScheduleRepository
	PaymentRepository() PaymentRepository
	SnapshotRepository() SnapshotRepository
	DistributionRepository() DistributionRepository
	FundLedgerRepository() FundLedgerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
