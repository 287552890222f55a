package unit

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/service"
)

func overdueInstallment() *domain.Installment {
	return &domain.Installment{
		ID:                 20,
		LoanID:             9,
		Number:             1,
		PrincipalAmount:    decimal.NewFromInt(200),
		InterestAmount:     decimal.NewFromInt(100),
		LateInterestAmount: decimal.NewFromInt(15),
		PaidAmount:         decimal.Zero,
		Status:             domain.InstallmentStatusOverdue,
	}
}

func TestPaymentService_Register(t *testing.T) {
	ctx := context.Background()
	payDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("FullPaymentSettlesInstallmentAndLoan", func(t *testing.T) {
		inst := overdueInstallment()
		loan := &domain.Loan{ID: 9, Status: domain.LoanStatusOverdue, CurrentBalance: decimal.NewFromInt(315)}

		instRepo := new(MockInstallmentRepo)
		instRepo.On("GetByID", mock.Anything, int32(20)).Return(inst, nil)
		instRepo.On("Update", mock.Anything, mock.MatchedBy(func(i *domain.Installment) bool {
			return i.Status == domain.InstallmentStatusPaid && i.PaymentDate != nil && i.PaidAmount.Equal(decimal.NewFromInt(315))
		})).Return(nil)
		instRepo.On("ListByLoan", mock.Anything, int32(9)).Return([]domain.Installment{
			{ID: 20, Status: domain.InstallmentStatusPaid},
		}, nil)

		loanRepo := new(MockLoanRepo)
		loanRepo.On("GetByID", mock.Anything, int32(9)).Return(loan, nil)
		loanRepo.On("UpdateBalance", mock.Anything, int32(9), mock.MatchedBy(func(b decimal.Decimal) bool {
			return b.Equal(decimal.Zero)
		})).Return(nil)
		loanRepo.On("UpdateStatus", mock.Anything, int32(9), domain.LoanStatusPaid).Return(nil)

		payRepo := new(MockPaymentRepo)
		payRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.LoanID == 9 && p.InstallmentID == 20 && p.Reference != "" && p.CollectorID == 3
		})).Return(nil)

		svc := service.NewPaymentService(payRepo, instRepo, loanRepo, newAuditStub())
		payment, err := svc.Register(ctx, 3, 20, decimal.NewFromInt(315), domain.PaymentMethodCash, payDate)

		assert.NoError(t, err)
		assert.NotNil(t, payment)
		instRepo.AssertExpectations(t)
		loanRepo.AssertExpectations(t)
		payRepo.AssertExpectations(t)
	})

	t.Run("PartialPaymentKeepsInstallmentOpen", func(t *testing.T) {
		inst := overdueInstallment()
		loan := &domain.Loan{ID: 9, Status: domain.LoanStatusOverdue, CurrentBalance: decimal.NewFromInt(315)}

		instRepo := new(MockInstallmentRepo)
		instRepo.On("GetByID", mock.Anything, int32(20)).Return(inst, nil)
		instRepo.On("Update", mock.Anything, mock.MatchedBy(func(i *domain.Installment) bool {
			return i.Status == domain.InstallmentStatusOverdue && i.PaymentDate == nil
		})).Return(nil)
		instRepo.On("ListByLoan", mock.Anything, int32(9)).Return([]domain.Installment{
			{ID: 20, Status: domain.InstallmentStatusOverdue},
		}, nil)

		loanRepo := new(MockLoanRepo)
		loanRepo.On("GetByID", mock.Anything, int32(9)).Return(loan, nil)
		loanRepo.On("UpdateBalance", mock.Anything, int32(9), mock.MatchedBy(func(b decimal.Decimal) bool {
			return b.Equal(decimal.NewFromInt(215))
		})).Return(nil)

		payRepo := new(MockPaymentRepo)
		payRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := service.NewPaymentService(payRepo, instRepo, loanRepo, newAuditStub())

		_, err := svc.Register(ctx, 3, 20, decimal.NewFromInt(100), domain.PaymentMethodTransfer, payDate)

		assert.NoError(t, err)
		loanRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PaidInstallmentRejected", func(t *testing.T) {
		inst := overdueInstallment()
		inst.Status = domain.InstallmentStatusPaid

		instRepo := new(MockInstallmentRepo)
		instRepo.On("GetByID", mock.Anything, int32(20)).Return(inst, nil)

		svc := service.NewPaymentService(new(MockPaymentRepo), instRepo, new(MockLoanRepo), newAuditStub())
		_, err := svc.Register(ctx, 3, 20, decimal.NewFromInt(100), domain.PaymentMethodCash, payDate)

		assert.ErrorIs(t, err, domain.ErrInstallmentPaid)
	})

	t.Run("CancelledLoanRejected", func(t *testing.T) {
		inst := overdueInstallment()

		instRepo := new(MockInstallmentRepo)
		instRepo.On("GetByID", mock.Anything, int32(20)).Return(inst, nil)
		loanRepo := new(MockLoanRepo)
		loanRepo.On("GetByID", mock.Anything, int32(9)).Return(&domain.Loan{ID: 9, Status: domain.LoanStatusCancelled}, nil)

		svc := service.NewPaymentService(new(MockPaymentRepo), instRepo, loanRepo, newAuditStub())
		_, err := svc.Register(ctx, 3, 20, decimal.NewFromInt(100), domain.PaymentMethodCash, payDate)

		assert.ErrorIs(t, err, domain.ErrLoanNotActive)
	})

	t.Run("RejectsBadInput", func(t *testing.T) {
		svc := service.NewPaymentService(new(MockPaymentRepo), new(MockInstallmentRepo), new(MockLoanRepo), newAuditStub())

		_, err := svc.Register(ctx, 3, 20, decimal.Zero, domain.PaymentMethodCash, payDate)
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Register(ctx, 3, 20, decimal.NewFromInt(50), "BARTER", payDate)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
