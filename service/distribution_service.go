package service

import (
	"context"
	"fmt"
	"sort"

	"fundpool/events"
	"fundpool/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// distributionService implements the DistributionService interface
type distributionService struct {
	uowFactory UnitOfWorkFactory
}

// NewDistributionService creates a new distribution service
func NewDistributionService(uowFactory UnitOfWorkFactory) DistributionService {
	return &distributionService{uowFactory: uowFactory}
}

// CreateSnapshot freezes the current pool composition for a fund month. Each
// member's units are their cumulative deposits divided by the deposit unit,
// floored; the cumulative unit count is the floored whole-pool total. A
// snapshot is immutable once created; the unique fund-month constraint is
// the backstop against concurrent creation.
func (s *distributionService) CreateSnapshot(ctx context.Context, fundMonth int, label string) (*models.PoolSnapshot, error) {
	if fundMonth < 1 {
		return nil, newValidationError(CodeInvalidMonth, fundMonth, "fund month must be at least 1")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.SnapshotRepository().GetByMonth(ctx, fundMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing snapshot: %w", err)
	}
	if existing != nil {
		return nil, newStateError(CodeSnapshotExists, fundMonth, "snapshot already exists for fund month %d", fundMonth)
	}

	cfg, err := loadFundConfig(ctx, uow)
	if err != nil {
		return nil, err
	}

	totals, err := uow.DepositRepository().TotalsByMember(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum deposits by member: %w", err)
	}

	poolAmount := decimal.Zero
	memberUnits := make(map[int64]int64, len(totals))
	var unitCount int64
	for memberID, total := range totals {
		poolAmount = poolAmount.Add(total)
		units := total.Div(cfg.DepositUnit).IntPart()
		if units <= 0 {
			continue
		}
		memberUnits[memberID] = units
		unitCount += units
	}

	snapshot := &models.PoolSnapshot{
		FundMonth:       fundMonth,
		Label:           label,
		PoolAmount:      poolAmount,
		UnitCount:       unitCount,
		CumulativeUnits: poolAmount.Div(cfg.DepositUnit).IntPart(),
		MemberUnits:     memberUnits,
		Finalized:       true,
	}

	if err := uow.SnapshotRepository().Create(ctx, snapshot); err != nil {
		return nil, translateConflict(
			fmt.Errorf("failed to create snapshot: %w", err),
			CodeSnapshotExists, fmt.Sprintf("snapshot already exists for fund month %d", fundMonth))
	}

	uow.EventBus().Publish(events.SnapshotCreatedEvent{
		SnapshotID:      snapshot.ID,
		FundMonth:       fundMonth,
		CumulativeUnits: snapshot.CumulativeUnits,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"fundMonth":  fundMonth,
		"poolAmount": poolAmount.StringFixed(2),
		"unitCount":  unitCount,
		"members":    len(memberUnits),
	}).Info("Pool snapshot created")

	return snapshot, nil
}

// DistributeInterest splits an earned amount pro-rata across the frozen
// snapshot for poolSourceMonth and credits the fund ledger. Per-member
// shares are rounded to 2 places independently; the residual against the
// distributed amount is surfaced on the result, not silently absorbed.
func (s *distributionService) DistributeInterest(ctx context.Context, earnedMonth int, source models.InterestSource, description string, amount decimal.Decimal, poolSourceMonth int, loanID *int64) (*models.DistributionResult, error) {
	if !amount.IsPositive() {
		return nil, newValidationError(CodeInvalidAmount, amount.String(), "interest amount must be positive")
	}
	if earnedMonth < 1 {
		return nil, newValidationError(CodeInvalidMonth, earnedMonth, "earned month must be at least 1")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	snapshot, err := uow.SnapshotRepository().GetByMonth(ctx, poolSourceMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	if snapshot == nil {
		return nil, newStateError(CodeSnapshotMissing, poolSourceMonth, "no snapshot for fund month %d", poolSourceMonth)
	}
	if snapshot.CumulativeUnits <= 0 {
		return nil, newStateError(CodeZeroUnits, poolSourceMonth, "snapshot for fund month %d has no units", poolSourceMonth)
	}

	entry := &models.InterestEntry{
		EarnedMonth:     earnedMonth,
		Source:          source,
		Description:     description,
		LoanID:          loanID,
		PoolSourceMonth: poolSourceMonth,
		Amount:          amount,
	}
	if err := uow.DistributionRepository().CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create interest entry: %w", err)
	}

	// Stable member order so repeated runs produce identical share rows
	memberIDs := make([]int64, 0, len(snapshot.MemberUnits))
	for memberID := range snapshot.MemberUnits {
		memberIDs = append(memberIDs, memberID)
	}
	sort.Slice(memberIDs, func(i, j int) bool { return memberIDs[i] < memberIDs[j] })

	totalUnits := decimal.NewFromInt(snapshot.CumulativeUnits)
	ratePerUnit := amount.Div(totalUnits)

	shares := make([]*models.MemberInterestShare, 0, len(memberIDs))
	distributed := decimal.Zero
	for _, memberID := range memberIDs {
		units := snapshot.MemberUnits[memberID]
		unitsDec := decimal.NewFromInt(units)
		shareAmount := ratePerUnit.Mul(unitsDec).Round(2)
		distributed = distributed.Add(shareAmount)

		shares = append(shares, &models.MemberInterestShare{
			MemberID:        memberID,
			InterestEntryID: entry.ID,
			MemberUnits:     units,
			TotalUnits:      snapshot.CumulativeUnits,
			SharePercent:    unitsDec.Div(totalUnits).Mul(decimal.NewFromInt(100)).Round(4),
			ShareAmount:     shareAmount,
		})
	}

	if err := uow.DistributionRepository().CreateShares(ctx, shares); err != nil {
		return nil, fmt.Errorf("failed to create member shares: %w", err)
	}

	// Credit the reserve under the balance row lock so concurrent
	// distributions serialize.
	balance, err := uow.FundLedgerRepository().GetBalanceForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get fund ledger balance: %w", err)
	}

	balance.Balance = balance.Balance.Add(amount)
	if err := uow.FundLedgerRepository().UpdateBalance(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to update fund ledger balance: %w", err)
	}

	txn := &models.FundLedgerTransaction{
		Type:             models.LedgerTransactionInterestIn,
		Amount:           amount,
		ResultingBalance: balance.Balance,
		InterestEntryID:  &entry.ID,
		Description:      description,
	}
	if err := uow.FundLedgerRepository().AppendTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to append ledger transaction: %w", err)
	}

	residual := amount.Sub(distributed)

	uow.EventBus().Publish(events.InterestDistributedEvent{
		InterestEntryID: entry.ID,
		Amount:          amount,
		MembersAffected: len(shares),
		Residual:        residual,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"entryID":     entry.ID,
		"earnedMonth": earnedMonth,
		"source":      source,
		"amount":      amount.StringFixed(2),
		"shares":      len(shares),
		"residual":    residual.StringFixed(2),
	}).Info("Interest distributed")

	return &models.DistributionResult{Entry: entry, Shares: shares, Residual: residual}, nil
}

// GetDistributionReport returns an entry with its shares and recomputed residual
func (s *distributionService) GetDistributionReport(ctx context.Context, entryID int64) (*models.DistributionResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entry, err := uow.DistributionRepository().GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get interest entry: %w", err)
	}
	if entry == nil {
		return nil, newNotFoundError("interest entry", entryID)
	}

	shares, err := uow.DistributionRepository().GetSharesByEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member shares: %w", err)
	}

	distributed := decimal.Zero
	for _, share := range shares {
		distributed = distributed.Add(share.ShareAmount)
	}

	return &models.DistributionResult{
		Entry:    entry,
		Shares:   shares,
		Residual: entry.Amount.Sub(distributed),
	}, nil
}

// GetLedgerHistory returns fund ledger transactions, newest first
func (s *distributionService) GetLedgerHistory(ctx context.Context, limit int) ([]*models.FundLedgerTransaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.FundLedgerRepository().GetTransactions(ctx, limit)
}
