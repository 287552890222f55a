package service

import (
	"context"
	"time"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type dashboardService struct {
	loanRepo        repository.LoanRepository
	installmentRepo repository.InstallmentRepository
	paymentRepo     repository.PaymentRepository
	customerRepo    repository.CustomerRepository
}

func NewDashboardService(
	loanRepo repository.LoanRepository,
	installmentRepo repository.InstallmentRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
) DashboardService {
	return &dashboardService{
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		customerRepo:    customerRepo,
	}
}

func (s *dashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{}

	var err error
	if summary.ActiveLoans, err = s.loanRepo.CountByStatus(ctx, domain.LoanStatusActive); err != nil {
		return nil, err
	}
	if summary.OverdueLoans, err = s.loanRepo.CountByStatus(ctx, domain.LoanStatusOverdue); err != nil {
		return nil, err
	}
	if summary.PortfolioBalance, err = s.loanRepo.OutstandingBalance(ctx); err != nil {
		return nil, err
	}
	if summary.OverdueInstallments, err = s.installmentRepo.CountOverdue(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if summary.CollectedToday, err = s.paymentRepo.TotalCollectedSince(ctx, startOfDay); err != nil {
		return nil, err
	}

	if summary.ActiveCustomers, err = s.customerRepo.CountActive(ctx); err != nil {
		return nil, err
	}

	return summary, nil
}
