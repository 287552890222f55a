package unit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"microfinance-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) GetByIDCard(ctx context.Context, idCard string) (*domain.Customer, error) {
	args := m.Called(ctx, idCard)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	args := m.Called(ctx, id, deleted)
	return args.Error(0)
}
func (m *MockCustomerRepo) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, search, page, pageSize)
	return args.Get(0).([]domain.Customer), args.Get(1).(int32), args.Error(2)
}
func (m *MockCustomerRepo) CountActive(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedule []domain.Installment) error {
	args := m.Called(ctx, loan, schedule)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) UpdateStatus(ctx context.Context, id int32, status domain.LoanStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockLoanRepo) UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}
func (m *MockLoanRepo) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	args := m.Called(ctx, id, deleted)
	return args.Error(0)
}
func (m *MockLoanRepo) List(ctx context.Context, customerID int32, status domain.LoanStatus, page, pageSize int32) ([]domain.Loan, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Get(1).(int32), args.Error(2)
}
func (m *MockLoanRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) CountByStatus(ctx context.Context, status domain.LoanStatus) (int32, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) OutstandingBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockInstallmentRepo
type MockInstallmentRepo struct {
	mock.Mock
}

func (m *MockInstallmentRepo) GetByID(ctx context.Context, id int32) (*domain.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}
func (m *MockInstallmentRepo) ListByLoan(ctx context.Context, loanID int32) ([]domain.Installment, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *MockInstallmentRepo) Update(ctx context.Context, installment *domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}
func (m *MockInstallmentRepo) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	args := m.Called(ctx, id, deleted)
	return args.Error(0)
}
func (m *MockInstallmentRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *MockInstallmentRepo) ListAccruable(ctx context.Context, today time.Time) ([]domain.AccruableInstallment, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccruableInstallment), args.Error(1)
}
func (m *MockInstallmentRepo) UpdateLateInterest(ctx context.Context, charges map[int32]decimal.Decimal) error {
	args := m.Called(ctx, charges)
	return args.Error(0)
}
func (m *MockInstallmentRepo) CountOverdue(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByLoan(ctx context.Context, loanID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByCollector(ctx context.Context, collectorID int32, from, to time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, collectorID, from, to)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	args := m.Called(ctx, id, deleted)
	return args.Error(0)
}
func (m *MockPaymentRepo) TotalCollectedSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Append(ctx context.Context, entry *domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter, page, pageSize int32) ([]domain.AuditLog, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.AuditLog), args.Get(1).(int32), args.Error(2)
}
