package service

import (
	"context"
	"fmt"
	"time"

	"fundpool/events"
	"fundpool/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// depositService implements the DepositService interface
type depositService struct {
	uowFactory UnitOfWorkFactory
}

// NewDepositService creates a new deposit service
func NewDepositService(uowFactory UnitOfWorkFactory) DepositService {
	return &depositService{uowFactory: uowFactory}
}

// RecordDeposit validates and records a member contribution. The member row
// is locked for the duration of the transaction so concurrent deposits for
// the same member serialize; the running total is always the prefix sum of
// some consistent serial order.
func (s *depositService) RecordDeposit(ctx context.Context, memberID int64, amount decimal.Decimal, memberMonth int, date time.Time) (*models.Deposit, error) {
	if !amount.IsPositive() {
		return nil, newValidationError(CodeInvalidAmount, amount.String(), "deposit amount must be positive")
	}
	if memberMonth < 1 {
		return nil, newValidationError(CodeInvalidMonth, memberMonth, "member month must be at least 1")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Lock the member row to serialize the read-modify-write on the
	// running total.
	member, err := uow.MemberRepository().GetByIDForUpdate(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, newNotFoundError("member", memberID)
	}

	cfg, err := loadFundConfig(ctx, uow)
	if err != nil {
		return nil, err
	}

	if !amount.Mod(cfg.DepositUnit).IsZero() {
		return nil, newValidationError(CodeInvalidAmount, amount.String(),
			"deposit amount must be a multiple of the %s unit", cfg.DepositUnit)
	}

	prior, err := uow.DepositRepository().TotalByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum prior deposits: %w", err)
	}

	newTotal := prior.Add(amount)
	required := cfg.DepositUnit.Mul(decimal.NewFromInt(int64(memberMonth)))
	if newTotal.LessThan(required) {
		return nil, newValidationError(CodeBelowMinimum, newTotal.String(),
			"cumulative total for member month %d must be at least %s", memberMonth, required)
	}

	deposit := &models.Deposit{
		MemberID:     memberID,
		Amount:       amount,
		MemberMonth:  memberMonth,
		DepositDate:  date,
		RunningTotal: newTotal,
	}

	if err := uow.DepositRepository().Create(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}

	uow.EventBus().Publish(events.DepositRecordedEvent{
		MemberID:     memberID,
		DepositID:    deposit.ID,
		Amount:       amount,
		MemberMonth:  memberMonth,
		RunningTotal: newTotal,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return deposit, nil
}

// Recalculate replays all deposits for a member ordered by member month and
// rewrites running totals from scratch. Idempotent; used to correct
// historical import errors.
func (s *depositService) Recalculate(ctx context.Context, memberID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().GetByIDForUpdate(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return newNotFoundError("member", memberID)
	}

	deposits, err := uow.DepositRepository().GetByMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to load deposits: %w", err)
	}

	running := decimal.Zero
	rewritten := 0
	for _, deposit := range deposits {
		running = running.Add(deposit.Amount)
		if deposit.RunningTotal.Equal(running) {
			continue
		}
		if err := uow.DepositRepository().UpdateRunningTotal(ctx, deposit.ID, running); err != nil {
			return fmt.Errorf("failed to rewrite running total for deposit %d: %w", deposit.ID, err)
		}
		rewritten++
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"memberID":  memberID,
		"deposits":  len(deposits),
		"rewritten": rewritten,
	}).Info("Recalculated deposit running totals")

	return nil
}

// History returns a member's deposits ordered by member month
func (s *depositService) History(ctx context.Context, memberID int64) ([]*models.Deposit, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deposits, err := uow.DepositRepository().GetByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposits: %w", err)
	}

	return deposits, nil
}
