package service

import (
	"context"
	"fmt"
	"time"

	"fundpool/events"
	"fundpool/fincalc"
	"fundpool/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// loanService implements the LoanService interface
type loanService struct {
	uowFactory UnitOfWorkFactory
}

// NewLoanService creates a new loan service
func NewLoanService(uowFactory UnitOfWorkFactory) LoanService {
	return &loanService{uowFactory: uowFactory}
}

// RequestLoan creates a loan against eligibility. The active-loan count and
// eligibility are re-checked under the member row lock in the same
// transaction as the insert, so two concurrent requests cannot both pass the
// count check.
func (s *loanService) RequestLoan(ctx context.Context, memberID int64, amount decimal.Decimal, requestedStart *time.Time) (*models.Loan, error) {
	if !amount.IsPositive() {
		return nil, newValidationError(CodeInvalidAmount, amount.String(), "loan amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Serializes concurrent requests for the same member
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

	eligibility, err := computeEligibility(ctx, uow, memberID, cfg)
	if err != nil {
		return nil, err
	}

	if eligibility.ActiveLoans >= cfg.MaxActiveLoans {
		return nil, newEligibilityError(CodeMaxActiveLoans, eligibility.ActiveLoans,
			"member already has the maximum of %d active loan(s)", cfg.MaxActiveLoans)
	}
	if amount.GreaterThan(eligibility.MaxEligible) {
		return nil, newEligibilityError(CodeExceedsEligibility, amount.String(),
			"amount exceeds maximum eligible %s", eligibility.MaxEligible)
	}

	// Eligibility > 0 implies the member has deposits
	multiplier := amount.Div(eligibility.TotalDeposits)

	brackets, err := uow.BracketRepository().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load interest brackets: %w", err)
	}
	rate := ResolveRate(brackets, multiplier)

	disbursedAt := time.Now().UTC()
	maturity := disbursedAt.AddDate(cfg.TenureYears, 0, 0)

	if requestedStart != nil {
		if requestedStart.Before(disbursedAt) {
			return nil, newStateError(CodeInvalidStart, requestedStart.Format(time.DateOnly),
				"requested installment start precedes disbursement")
		}
		if !requestedStart.Before(maturity) {
			return nil, newStateError(CodeInvalidStart, requestedStart.Format(time.DateOnly),
				"requested installment start is on or after maturity")
		}
	}

	loan := &models.Loan{
		MemberID:             memberID,
		Principal:            amount,
		Rate:                 rate,
		Multiplier:           multiplier,
		DepositTotalAtGrant:  eligibility.TotalDeposits,
		PoolTotalAtGrant:     eligibility.TotalPool,
		OutstandingAtGrant:   eligibility.Outstanding,
		DisbursedAt:          disbursedAt,
		MaturityDate:         maturity,
		RequestedStart:       requestedStart,
		OutstandingPrincipal: amount,
		InterestPaid:         decimal.Zero,
		Status:               models.LoanStatusActive,
	}

	if err := uow.LoanRepository().Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	uow.EventBus().Publish(events.LoanStateChangeEvent{
		LoanID:    loan.ID,
		MemberID:  memberID,
		OldStatus: "",
		NewStatus: models.LoanStatusActive,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"loanID":     loan.ID,
		"memberID":   memberID,
		"principal":  amount.StringFixed(2),
		"rate":       rate.String(),
		"multiplier": multiplier.StringFixed(4),
	}).Info("Loan disbursed")

	return loan, nil
}

// StartInstallments activates the fixed installment phase. The compound
// pre-installment charge over the disbursement gap, the amortized entries
// and the loan update are persisted in one transaction.
func (s *loanService) StartInstallments(ctx context.Context, loanID int64, startDate time.Time, installmentCount int) (*models.LoanSchedule, error) {
	if installmentCount < 1 {
		return nil, newValidationError(CodeInvalidMonth, installmentCount, "installment count must be at least 1")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	loan, err := uow.LoanRepository().GetByIDForUpdate(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if loan == nil {
		return nil, newNotFoundError("loan", loanID)
	}
	if !loan.IsActive() {
		return nil, newStateError(CodeLoanNotActive, string(loan.Status), "loan is not active")
	}
	if loan.InstallmentsStarted() {
		return nil, newStateError(CodeAlreadyStarted, loanID, "installments already started")
	}
	if startDate.Before(loan.DisbursedAt) {
		return nil, newStateError(CodeInvalidStart, startDate.Format(time.DateOnly),
			"installment start precedes disbursement")
	}
	if !startDate.Before(loan.MaturityDate) {
		return nil, newStateError(CodeInvalidStart, startDate.Format(time.DateOnly),
			"installment start is on or after maturity")
	}

	days := int(startDate.Sub(loan.DisbursedAt).Hours() / 24)
	interest := fincalc.CompoundInterest(loan.OutstandingPrincipal, loan.Rate, days)

	charge := &models.PreInstallmentCharge{
		LoanID:      loanID,
		PeriodStart: loan.DisbursedAt,
		PeriodEnd:   startDate,
		Days:        days,
		Principal:   loan.OutstandingPrincipal,
		Rate:        loan.Rate,
		Interest:    interest,
		DueDate:     startDate,
	}

	lines, err := fincalc.Amortize(loan.OutstandingPrincipal, loan.Rate, installmentCount, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to amortize loan %d: %w", loanID, err)
	}

	entries := make([]*models.InstallmentEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, &models.InstallmentEntry{
			LoanID:             loanID,
			Sequence:           line.Sequence,
			DueDate:            line.DueDate,
			PrincipalComponent: line.Principal,
			InterestComponent:  line.Interest,
			Total:              line.Total,
			OutstandingAfter:   line.Outstanding,
		})
	}

	if err := uow.ScheduleRepository().CreateCharge(ctx, charge); err != nil {
		return nil, translateConflict(
			fmt.Errorf("failed to create pre-installment charge: %w", err),
			CodeAlreadyStarted, "installments already started")
	}
	if err := uow.ScheduleRepository().CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to create installment entries: %w", err)
	}

	loan.InstallmentStartDate = &startDate
	loan.PreInstallmentAmount = &interest
	if err := uow.LoanRepository().Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"loanID":       loanID,
		"gapDays":      days,
		"gapInterest":  interest.StringFixed(2),
		"installments": installmentCount,
	}).Info("Installment schedule generated")

	return &models.LoanSchedule{Charge: charge, Entries: entries}, nil
}

// ApplyPayment applies a payment to a loan. All three shapes run under the
// loan row lock in one transaction with the loan update, so outstanding
// principal never sees an interleaved read-modify-write.
func (s *loanService) ApplyPayment(ctx context.Context, loanID int64, amount decimal.Decimal, date time.Time, target models.PaymentTarget) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, newValidationError(CodeInvalidAmount, amount.String(), "payment amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	loan, err := uow.LoanRepository().GetByIDForUpdate(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if loan == nil {
		return nil, newNotFoundError("loan", loanID)
	}
	if !loan.IsActive() {
		return nil, newStateError(CodeLoanNotActive, string(loan.Status), "loan is not active")
	}

	payment := &models.Payment{
		Reference:        uuid.New(),
		LoanID:           loanID,
		MemberID:         loan.MemberID,
		Amount:           amount,
		PrincipalPortion: decimal.Zero,
		InterestPortion:  decimal.Zero,
		Type:             target.Type,
		PaidAt:           date,
	}

	switch target.Type {
	case models.PaymentTypePreInstallment:
		if err := s.applyPreInstallment(ctx, uow, loan, payment, amount, date, target); err != nil {
			return nil, err
		}
	case models.PaymentTypeInstallment:
		if err := s.applyInstallment(ctx, uow, loan, payment, amount, date, target); err != nil {
			return nil, err
		}
	case models.PaymentTypePrepayment:
		if amount.GreaterThan(loan.OutstandingPrincipal) {
			return nil, newStateError(CodeExceedsOutstanding, amount.String(),
				"prepayment exceeds outstanding principal %s", loan.OutstandingPrincipal)
		}
		loan.OutstandingPrincipal = loan.OutstandingPrincipal.Sub(amount)
		payment.PrincipalPortion = amount
	default:
		return nil, newValidationError(CodeMissingField, string(target.Type), "unknown payment type")
	}

	// Any principal decrement can complete the loan; completed is terminal.
	if !loan.OutstandingPrincipal.IsPositive() && loan.Status == models.LoanStatusActive {
		now := time.Now().UTC()
		loan.Status = models.LoanStatusCompleted
		loan.CompletedAt = &now

		uow.EventBus().Publish(events.LoanStateChangeEvent{
			LoanID:    loanID,
			MemberID:  loan.MemberID,
			OldStatus: models.LoanStatusActive,
			NewStatus: models.LoanStatusCompleted,
		})
	}

	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	if err := uow.LoanRepository().Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	uow.EventBus().Publish(events.PaymentAppliedEvent{
		LoanID:           loanID,
		PaymentID:        payment.ID,
		PaymentType:      target.Type,
		Amount:           amount,
		OutstandingAfter: loan.OutstandingPrincipal,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return payment, nil
}

// applyPreInstallment settles the referenced charge and accrues its amount
// into cumulative interest paid
func (s *loanService) applyPreInstallment(ctx context.Context, uow UnitOfWork, loan *models.Loan, payment *models.Payment, amount decimal.Decimal, date time.Time, target models.PaymentTarget) error {
	if target.ChargeID == nil {
		return newValidationError(CodeMissingField, nil, "pre-installment payment requires a charge reference")
	}

	charge, err := uow.ScheduleRepository().GetChargeByID(ctx, *target.ChargeID)
	if err != nil {
		return fmt.Errorf("failed to get charge: %w", err)
	}
	if charge == nil || charge.LoanID != loan.ID {
		return newNotFoundError("pre-installment charge", *target.ChargeID)
	}
	if charge.Paid {
		return newStateError(CodeAlreadyPaid, charge.ID, "charge is already paid")
	}

	charge.Paid = true
	charge.PaidAmount = &amount
	charge.PaidAt = &date
	if err := uow.ScheduleRepository().UpdateCharge(ctx, charge); err != nil {
		return fmt.Errorf("failed to update charge: %w", err)
	}

	loan.InterestPaid = loan.InterestPaid.Add(amount)
	payment.InterestPortion = amount
	payment.ChargeID = target.ChargeID

	return nil
}

// applyInstallment settles the referenced entry, decrements outstanding
// principal by the entry's principal component and accrues its interest
// component
func (s *loanService) applyInstallment(ctx context.Context, uow UnitOfWork, loan *models.Loan, payment *models.Payment, amount decimal.Decimal, date time.Time, target models.PaymentTarget) error {
	if target.EntryID == nil {
		return newValidationError(CodeMissingField, nil, "installment payment requires an entry reference")
	}

	entry, err := uow.ScheduleRepository().GetEntryByID(ctx, *target.EntryID)
	if err != nil {
		return fmt.Errorf("failed to get installment entry: %w", err)
	}
	if entry == nil || entry.LoanID != loan.ID {
		return newNotFoundError("installment entry", *target.EntryID)
	}
	if entry.Paid {
		return newStateError(CodeAlreadyPaid, entry.ID, "installment entry is already paid")
	}

	entry.Paid = true
	entry.PaidAmount = &amount
	entry.PaidAt = &date
	if err := uow.ScheduleRepository().UpdateEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to update installment entry: %w", err)
	}

	loan.OutstandingPrincipal = loan.OutstandingPrincipal.Sub(entry.PrincipalComponent)
	loan.InterestPaid = loan.InterestPaid.Add(entry.InterestComponent)
	payment.PrincipalPortion = entry.PrincipalComponent
	payment.InterestPortion = entry.InterestComponent
	payment.EntryID = target.EntryID

	return nil
}

// MarkDefaulted transitions an active loan to defaulted. This is an
// administrative action; no payment operation triggers it.
func (s *loanService) MarkDefaulted(ctx context.Context, loanID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	loan, err := uow.LoanRepository().GetByIDForUpdate(ctx, loanID)
	if err != nil {
		return fmt.Errorf("failed to get loan: %w", err)
	}
	if loan == nil {
		return newNotFoundError("loan", loanID)
	}
	if !loan.IsActive() {
		return newStateError(CodeLoanNotActive, string(loan.Status), "loan is not active")
	}

	loan.Status = models.LoanStatusDefaulted
	if err := uow.LoanRepository().Update(ctx, loan); err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}

	uow.EventBus().Publish(events.LoanStateChangeEvent{
		LoanID:    loanID,
		MemberID:  loan.MemberID,
		OldStatus: models.LoanStatusActive,
		NewStatus: models.LoanStatusDefaulted,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetLoanDetail returns a loan with its nested charge, schedule and payments
func (s *loanService) GetLoanDetail(ctx context.Context, loanID int64) (*models.LoanDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	loan, err := uow.LoanRepository().GetByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if loan == nil {
		return nil, newNotFoundError("loan", loanID)
	}

	charge, err := uow.ScheduleRepository().GetChargeByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get charge: %w", err)
	}

	entries, err := uow.ScheduleRepository().GetEntriesByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installment entries: %w", err)
	}

	payments, err := uow.PaymentRepository().GetByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return &models.LoanDetail{
		Loan:     loan,
		Charge:   charge,
		Entries:  entries,
		Payments: payments,
	}, nil
}
