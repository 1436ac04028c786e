package repository

import (
	"context"
	"fmt"

	"fundpool/database"
	"fundpool/events"
	"fundpool/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	memberRepo       service.MemberRepository
	depositRepo      service.DepositRepository
	bracketRepo      service.BracketRepository
	settingRepo      service.SettingRepository
	loanRepo         service.LoanRepository
	scheduleRepo     service.ScheduleRepository
	paymentRepo      service.PaymentRepository
	snapshotRepo     service.SnapshotRepository
	distributionRepo service.DistributionRepository
	fundLedgerRepo   service.FundLedgerRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.memberRepo = newMemberRepositoryWithTx(tx)
	u.depositRepo = newDepositRepositoryWithTx(tx)
	u.bracketRepo = newBracketRepositoryWithTx(tx)
	u.settingRepo = newSettingRepositoryWithTx(tx)
	u.loanRepo = newLoanRepositoryWithTx(tx)
	u.scheduleRepo = newScheduleRepositoryWithTx(tx)
	u.paymentRepo = newPaymentRepositoryWithTx(tx)
	u.snapshotRepo = newSnapshotRepositoryWithTx(tx)
	u.distributionRepo = newDistributionRepositoryWithTx(tx)
	u.fundLedgerRepo = newFundLedgerRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// MemberRepository returns the member repository for this unit of work
func (u *unitOfWork) MemberRepository() service.MemberRepository {
	if u.memberRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.memberRepo
}

// DepositRepository returns the deposit repository for this unit of work
func (u *unitOfWork) DepositRepository() service.DepositRepository {
	if u.depositRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.depositRepo
}

// BracketRepository returns the bracket repository for this unit of work
func (u *unitOfWork) BracketRepository() service.BracketRepository {
	if u.bracketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.bracketRepo
}

// SettingRepository returns the setting repository for this unit of work
func (u *unitOfWork) SettingRepository() service.SettingRepository {
	if u.settingRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.settingRepo
}

// LoanRepository returns the loan repository for this unit of work
func (u *unitOfWork) LoanRepository() service.LoanRepository {
	if u.loanRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.loanRepo
}

// ScheduleRepository returns the schedule repository for this unit of work
func (u *unitOfWork) ScheduleRepository() service.ScheduleRepository {
	if u.scheduleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.scheduleRepo
}

// PaymentRepository returns the payment repository for this unit of work
func (u *unitOfWork) PaymentRepository() service.PaymentRepository {
	if u.paymentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.paymentRepo
}

// SnapshotRepository returns the snapshot repository for this unit of work
func (u *unitOfWork) SnapshotRepository() service.SnapshotRepository {
	if u.snapshotRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.snapshotRepo
}

// DistributionRepository returns the distribution repository for this unit of work
func (u *unitOfWork) DistributionRepository() service.DistributionRepository {
	if u.distributionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.distributionRepo
}

// FundLedgerRepository returns the fund ledger repository for this unit of work
func (u *unitOfWork) FundLedgerRepository() service.FundLedgerRepository {
	if u.fundLedgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.fundLedgerRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
