package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type loanService struct {
	loanRepo        repository.LoanRepository
	installmentRepo repository.InstallmentRepository
	customerRepo    repository.CustomerRepository
	auditSvc        AuditService
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	installmentRepo repository.InstallmentRepository,
	customerRepo repository.CustomerRepository,
	auditSvc AuditService,
) LoanService {
	return &loanService{
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		customerRepo:    customerRepo,
		auditSvc:        auditSvc,
	}
}

func (s *loanService) Originate(ctx context.Context, actorID int32, loan *domain.Loan) ([]domain.Installment, error) {
	if !loan.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: loan amount must be positive", domain.ErrValidation)
	}
	if loan.TermMonths < 1 {
		return nil, fmt.Errorf("%w: loan term must be at least one month", domain.ErrValidation)
	}
	if loan.MonthlyInterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: monthly interest rate must not be negative", domain.ErrValidation)
	}

	customer, err := s.customerRepo.GetByID(ctx, loan.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if !customer.IsActive || customer.IsDeleted {
		return nil, fmt.Errorf("%w: customer is not active", domain.ErrValidation)
	}

	if loan.StartDate.IsZero() {
		loan.StartDate = time.Now()
	}

	schedule := buildSchedule(loan)

	loan.Status = domain.LoanStatusActive
	loan.DueDate = schedule[len(schedule)-1].DueDate
	loan.CurrentBalance = totalPayable(schedule)

	if err := s.loanRepo.CreateWithSchedule(ctx, loan, schedule); err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, "loans", loan.ID, domain.AuditActionCreate, actorID)
	return schedule, nil
}

// buildSchedule splits the principal into equal monthly portions (the last
// installment absorbs the rounding remainder) and adds a flat interest
// portion of principal * rate on every installment.
func buildSchedule(loan *domain.Loan) []domain.Installment {
	term := int(loan.TermMonths)
	principalPortion := loan.Amount.Div(decimal.NewFromInt(int64(term))).Round(2)
	interestPortion := loan.Amount.Mul(loan.MonthlyInterestRate).Div(decimal.NewFromInt(100)).Round(2)

	schedule := make([]domain.Installment, term)
	for i := 0; i < term; i++ {
		principal := principalPortion
		if i == term-1 {
			principal = loan.Amount.Sub(principalPortion.Mul(decimal.NewFromInt(int64(term - 1))))
		}
		schedule[i] = domain.Installment{
			Number:          int32(i + 1),
			PrincipalAmount: principal,
			InterestAmount:  interestPortion,
			DueDate:         loan.StartDate.AddDate(0, i+1, 0),
			Status:          domain.InstallmentStatusPending,
		}
	}
	return schedule
}

func totalPayable(schedule []domain.Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.PrincipalAmount).Add(inst.InterestAmount)
	}
	return total
}

func (s *loanService) Get(ctx context.Context, id int32) (*domain.Loan, error) {
	return s.loanRepo.GetByID(ctx, id)
}

func (s *loanService) ListInstallments(ctx context.Context, loanID int32) ([]domain.Installment, error) {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.installmentRepo.ListByLoan(ctx, loanID)
}

func (s *loanService) GetInstallment(ctx context.Context, id int32) (*domain.Installment, error) {
	return s.installmentRepo.GetByID(ctx, id)
}

func (s *loanService) RescheduleInstallment(ctx context.Context, actorID, id int32, dueDate time.Time) (*domain.Installment, error) {
	if dueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", domain.ErrValidation)
	}

	installment, err := s.installmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if installment.Status == domain.InstallmentStatusPaid {
		return nil, domain.ErrInstallmentPaid
	}

	installment.DueDate = dueDate
	if err := s.installmentRepo.Update(ctx, installment); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, "installments", id, domain.AuditActionUpdate, actorID)
	return installment, nil
}

func (s *loanService) DeleteInstallment(ctx context.Context, actorID, id int32) error {
	if _, err := s.installmentRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.installmentRepo.SetDeleted(ctx, id, true); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "installments", id, domain.AuditActionDelete, actorID)
	return nil
}

func (s *loanService) Cancel(ctx context.Context, actorID, id int32) error {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !loan.Status.CanTransitionTo(domain.LoanStatusCancelled) {
		return domain.ErrInvalidTransition
	}
	if err := s.loanRepo.UpdateStatus(ctx, id, domain.LoanStatusCancelled); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "loans", id, domain.AuditActionUpdate, actorID)
	return nil
}

func (s *loanService) Delete(ctx context.Context, actorID, id int32) error {
	if _, err := s.loanRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.loanRepo.SetDeleted(ctx, id, true); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "loans", id, domain.AuditActionDelete, actorID)
	return nil
}

func (s *loanService) List(ctx context.Context, customerID int32, status domain.LoanStatus, page, pageSize int32) ([]domain.Loan, int32, error) {
	return s.loanRepo.List(ctx, customerID, status, page, pageSize)
}
