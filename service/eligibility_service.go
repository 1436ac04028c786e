package service

import (
	"context"
	"fmt"

	"fundpool/models"

	"github.com/shopspring/decimal"
)

// eligibilityService implements the EligibilityService interface
type eligibilityService struct {
	uowFactory UnitOfWorkFactory
}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService(uowFactory UnitOfWorkFactory) EligibilityService {
	return &eligibilityService{uowFactory: uowFactory}
}

// Eligibility computes the member's maximum borrowable amount
func (s *eligibilityService) Eligibility(ctx context.Context, memberID int64) (*models.EligibilitySummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().GetByID(ctx, memberID)
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

	return computeEligibility(ctx, uow, memberID, cfg)
}

// computeEligibility evaluates the eligibility formula inside the caller's
// unit of work, so loan creation can re-check it atomically:
//
//	maxEligible = max(0, min(pool × maxPoolPct, deposits × multiplierCap) − outstanding)
func computeEligibility(ctx context.Context, uow UnitOfWork, memberID int64, cfg *models.FundConfig) (*models.EligibilitySummary, error) {
	totalDeposits, err := uow.DepositRepository().TotalByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum member deposits: %w", err)
	}

	totalPool, err := uow.DepositRepository().TotalPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pool deposits: %w", err)
	}

	outstanding, err := uow.LoanRepository().SumOutstandingByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum outstanding principal: %w", err)
	}

	activeLoans, err := uow.LoanRepository().CountActiveByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active loans: %w", err)
	}

	brackets, err := uow.BracketRepository().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load interest brackets: %w", err)
	}

	multiplierCap := maxMultiplierCap(brackets)

	summary := &models.EligibilitySummary{
		MemberID:      memberID,
		TotalDeposits: totalDeposits,
		TotalPool:     totalPool,
		Outstanding:   outstanding,
		MaxEligible:   decimal.Zero,
		MaxMultiplier: multiplierCap,
		ActiveLoans:   activeLoans,
	}

	// Members with no deposits are not eligible
	if totalDeposits.IsZero() {
		return summary, nil
	}

	poolCap := totalPool.Mul(cfg.MaxPoolPercentage)
	depositCap := totalDeposits.Mul(multiplierCap)

	maxEligible := decimal.Min(poolCap, depositCap).Sub(outstanding)
	if maxEligible.IsNegative() {
		maxEligible = decimal.Zero
	}

	summary.MaxEligible = maxEligible
	summary.Eligible = maxEligible.IsPositive() && activeLoans < cfg.MaxActiveLoans

	return summary, nil
}
