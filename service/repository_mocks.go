package service

import (
	"context"

	"fundpool/events"
	"fundpool/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetAll(ctx context.Context, status *models.MemberStatus) ([]*models.Member, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// MockDepositRepository is a mock implementation of DepositRepository
type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) GetByMember(ctx context.Context, memberID int64) ([]*models.Deposit, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deposit), args.Error(1)
}

func (m *MockDepositRepository) TotalByMember(ctx context.Context, memberID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDepositRepository) TotalPool(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDepositRepository) TotalsByMember(ctx context.Context) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *MockDepositRepository) UpdateRunningTotal(ctx context.Context, depositID int64, total decimal.Decimal) error {
	args := m.Called(ctx, depositID, total)
	return args.Error(0)
}

// MockBracketRepository is a mock implementation of BracketRepository
type MockBracketRepository struct {
	mock.Mock
}

func (m *MockBracketRepository) GetActive(ctx context.Context) ([]*models.InterestBracket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InterestBracket), args.Error(1)
}

func (m *MockBracketRepository) Create(ctx context.Context, bracket *models.InterestBracket) error {
	args := m.Called(ctx, bracket)
	return args.Error(0)
}

func (m *MockBracketRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// MockSettingRepository is a mock implementation of SettingRepository
type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) Get(ctx context.Context, key string) (*models.FundSetting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundSetting), args.Error(1)
}

func (m *MockSettingRepository) GetAll(ctx context.Context) ([]*models.FundSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FundSetting), args.Error(1)
}

func (m *MockSettingRepository) Upsert(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockLoanRepository is a mock implementation of LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByMember(ctx context.Context, memberID int64) ([]*models.Loan, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) CountActiveByMember(ctx context.Context, memberID int64) (int, error) {
	args := m.Called(ctx, memberID)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) SumOutstandingByMember(ctx context.Context, memberID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

// MockScheduleRepository is a mock implementation of ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) CreateCharge(ctx context.Context, charge *models.PreInstallmentCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetChargeByID(ctx context.Context, id int64) (*models.PreInstallmentCharge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PreInstallmentCharge), args.Error(1)
}

func (m *MockScheduleRepository) GetChargeByLoan(ctx context.Context, loanID int64) (*models.PreInstallmentCharge, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PreInstallmentCharge), args.Error(1)
}

func (m *MockScheduleRepository) UpdateCharge(ctx context.Context, charge *models.PreInstallmentCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

func (m *MockScheduleRepository) CreateEntries(ctx context.Context, entries []*models.InstallmentEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetEntryByID(ctx context.Context, id int64) (*models.InstallmentEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InstallmentEntry), args.Error(1)
}

func (m *MockScheduleRepository) GetEntriesByLoan(ctx context.Context, loanID int64) ([]*models.InstallmentEntry, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InstallmentEntry), args.Error(1)
}

func (m *MockScheduleRepository) UpdateEntry(ctx context.Context, entry *models.InstallmentEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByLoan(ctx context.Context, loanID int64) ([]*models.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Create(ctx context.Context, snapshot *models.PoolSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetByMonth(ctx context.Context, fundMonth int) (*models.PoolSnapshot, error) {
	args := m.Called(ctx, fundMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PoolSnapshot), args.Error(1)
}

// MockDistributionRepository is a mock implementation of DistributionRepository
type MockDistributionRepository struct {
	mock.Mock
}

func (m *MockDistributionRepository) CreateEntry(ctx context.Context, entry *models.InterestEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDistributionRepository) CreateShares(ctx context.Context, shares []*models.MemberInterestShare) error {
	args := m.Called(ctx, shares)
	return args.Error(0)
}

func (m *MockDistributionRepository) GetEntryByID(ctx context.Context, id int64) (*models.InterestEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterestEntry), args.Error(1)
}

func (m *MockDistributionRepository) GetSharesByEntry(ctx context.Context, entryID int64) ([]*models.MemberInterestShare, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MemberInterestShare), args.Error(1)
}

func (m *MockDistributionRepository) GetSharesByMember(ctx context.Context, memberID int64) ([]*models.MemberInterestShare, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MemberInterestShare), args.Error(1)
}

// MockFundLedgerRepository is a mock implementation of FundLedgerRepository
type MockFundLedgerRepository struct {
	mock.Mock
}

func (m *MockFundLedgerRepository) GetBalance(ctx context.Context) (*models.FundLedgerBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundLedgerBalance), args.Error(1)
}

func (m *MockFundLedgerRepository) GetBalanceForUpdate(ctx context.Context) (*models.FundLedgerBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundLedgerBalance), args.Error(1)
}

func (m *MockFundLedgerRepository) UpdateBalance(ctx context.Context, balance *models.FundLedgerBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

func (m *MockFundLedgerRepository) AppendTransaction(ctx context.Context, txn *models.FundLedgerTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockFundLedgerRepository) GetTransactions(ctx context.Context, limit int) ([]*models.FundLedgerTransaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FundLedgerTransaction), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// NoopEventPublisher discards events; used where tests don't assert on them
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return the instances wired through SetRepositories rather than recorded
// calls, so tests configure expectations directly on the repos.
type MockUnitOfWork struct {
	mock.Mock

	memberRepo       MemberRepository
	depositRepo      DepositRepository
	bracketRepo      BracketRepository
	settingRepo      SettingRepository
	loanRepo         LoanRepository
	scheduleRepo     ScheduleRepository
	paymentRepo      PaymentRepository
	snapshotRepo     SnapshotRepository
	distributionRepo DistributionRepository
	fundLedgerRepo   FundLedgerRepository
	eventBus         EventPublisher
}

// SetRepositories wires mock repositories into the unit of work. Nil slots
// are fine for repos the test never touches.
func (m *MockUnitOfWork) SetRepositories(
	memberRepo MemberRepository,
	depositRepo DepositRepository,
	bracketRepo BracketRepository,
	settingRepo SettingRepository,
	loanRepo LoanRepository,
	scheduleRepo ScheduleRepository,
	paymentRepo PaymentRepository,
	snapshotRepo SnapshotRepository,
	distributionRepo DistributionRepository,
	fundLedgerRepo FundLedgerRepository,
	eventBus EventPublisher,
) {
	m.memberRepo = memberRepo
	m.depositRepo = depositRepo
	m.bracketRepo = bracketRepo
	m.settingRepo = settingRepo
	m.loanRepo = loanRepo
	m.scheduleRepo = scheduleRepo
	m.paymentRepo = paymentRepo
	m.snapshotRepo = snapshotRepo
	m.distributionRepo = distributionRepo
	m.fundLedgerRepo = fundLedgerRepo
	if eventBus == nil {
		eventBus = NoopEventPublisher{}
	}
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) MemberRepository() MemberRepository             { return m.memberRepo }
func (m *MockUnitOfWork) DepositRepository() DepositRepository           { return m.depositRepo }
func (m *MockUnitOfWork) BracketRepository() BracketRepository           { return m.bracketRepo }
func (m *MockUnitOfWork) SettingRepository() SettingRepository           { return m.settingRepo }
func (m *MockUnitOfWork) LoanRepository() LoanRepository                 { return m.loanRepo }
func (m *MockUnitOfWork) ScheduleRepository() ScheduleRepository         { return m.scheduleRepo }
func (m *MockUnitOfWork) PaymentRepository() PaymentRepository           { return m.paymentRepo }
func (m *MockUnitOfWork) SnapshotRepository() SnapshotRepository         { return m.snapshotRepo }
func (m *MockUnitOfWork) DistributionRepository() DistributionRepository { return m.distributionRepo }
func (m *MockUnitOfWork) FundLedgerRepository() FundLedgerRepository     { return m.fundLedgerRepo }
func (m *MockUnitOfWork) EventBus() EventPublisher                       { return m.eventBus }

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
