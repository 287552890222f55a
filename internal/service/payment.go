package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type paymentService struct {
	paymentRepo     repository.PaymentRepository
	installmentRepo repository.InstallmentRepository
	loanRepo        repository.LoanRepository
	auditSvc        AuditService
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	installmentRepo repository.InstallmentRepository,
	loanRepo repository.LoanRepository,
	auditSvc AuditService,
) PaymentService {
	return &paymentService{
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
		loanRepo:        loanRepo,
		auditSvc:        auditSvc,
	}
}

func (s *paymentService) Register(ctx context.Context, actorID, installmentID int32, amount decimal.Decimal, method string, paymentDate time.Time) (*domain.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrValidation)
	}
	switch method {
	case domain.PaymentMethodCash, domain.PaymentMethodTransfer, domain.PaymentMethodCheck:
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, method)
	}

	installment, err := s.installmentRepo.GetByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if installment.Status == domain.InstallmentStatusPaid {
		return nil, domain.ErrInstallmentPaid
	}

	loan, err := s.loanRepo.GetByID(ctx, installment.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusActive && loan.Status != domain.LoanStatusOverdue {
		return nil, domain.ErrLoanNotActive
	}

	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment := &domain.Payment{
		LoanID:        loan.ID,
		InstallmentID: installment.ID,
		PaymentDate:   paymentDate,
		Amount:        amount,
		Method:        method,
		Reference:     uuid.New().String(),
		CollectorID:   actorID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, "payments", payment.ID, domain.AuditActionCreate, actorID)

	installment.PaidAmount = installment.PaidAmount.Add(amount)
	if installment.TotalDue().LessThanOrEqual(decimal.Zero) {
		installment.Status = domain.InstallmentStatusPaid
		installment.PaymentDate = &paymentDate
	}
	if err := s.installmentRepo.Update(ctx, installment); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, "installments", installment.ID, domain.AuditActionUpdate, actorID)

	if err := s.settleLoan(ctx, actorID, loan, amount); err != nil {
		return nil, err
	}

	return payment, nil
}

// settleLoan applies the payment to the loan balance and marks the loan PAID
// once every installment is settled.
func (s *paymentService) settleLoan(ctx context.Context, actorID int32, loan *domain.Loan, amount decimal.Decimal) error {
	balance := loan.CurrentBalance.Sub(amount)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	if err := s.loanRepo.UpdateBalance(ctx, loan.ID, balance); err != nil {
		return err
	}

	installments, err := s.installmentRepo.ListByLoan(ctx, loan.ID)
	if err != nil {
		return err
	}
	for _, inst := range installments {
		if inst.Status != domain.InstallmentStatusPaid {
			return nil
		}
	}

	if !loan.Status.CanTransitionTo(domain.LoanStatusPaid) {
		return nil
	}
	if err := s.loanRepo.UpdateStatus(ctx, loan.ID, domain.LoanStatusPaid); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "loans", loan.ID, domain.AuditActionUpdate, actorID)
	return nil
}

func (s *paymentService) Get(ctx context.Context, id int32) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *paymentService) ListByLoan(ctx context.Context, loanID int32) ([]domain.Payment, error) {
	return s.paymentRepo.ListByLoan(ctx, loanID)
}

func (s *paymentService) ListByCollector(ctx context.Context, collectorID int32, from, to time.Time) ([]domain.Payment, error) {
	return s.paymentRepo.ListByCollector(ctx, collectorID, from, to)
}

func (s *paymentService) Void(ctx context.Context, actorID, id int32) error {
	if _, err := s.paymentRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.paymentRepo.SetDeleted(ctx, id, true); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "payments", id, domain.AuditActionDelete, actorID)
	return nil
}
