package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	GetByIDCard(ctx context.Context, idCard string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	SetDeleted(ctx context.Context, id int32, deleted bool) error
	List(ctx context.Context, search string, page, pageSize int32) ([]domain.Customer, int32, error)
	CountActive(ctx context.Context) (int32, error)
}

type LoanRepository interface {
	// CreateWithSchedule inserts the loan and its full installment schedule in
	// a single transaction.
	CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedule []domain.Installment) error
	GetByID(ctx context.Context, id int32) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	UpdateStatus(ctx context.Context, id int32, status domain.LoanStatus) error
	UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) error
	SetDeleted(ctx context.Context, id int32, deleted bool) error
	List(ctx context.Context, customerID int32, status domain.LoanStatus, page, pageSize int32) ([]domain.Loan, int32, error)

	// MarkOverdue promotes every ACTIVE loan whose due date has passed to
	// OVERDUE and returns the promoted loans.
	MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error)

	CountByStatus(ctx context.Context, status domain.LoanStatus) (int32, error)
	OutstandingBalance(ctx context.Context) (decimal.Decimal, error)
}

type InstallmentRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Installment, error)
	ListByLoan(ctx context.Context, loanID int32) ([]domain.Installment, error)
	Update(ctx context.Context, installment *domain.Installment) error
	SetDeleted(ctx context.Context, id int32, deleted bool) error

	// MarkOverdue promotes every PENDING installment whose due date has passed
	// to OVERDUE and returns the promoted installments.
	MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Installment, error)

	// ListAccruable returns the installments eligible for late-interest
	// recalculation: OVERDUE, unpaid, due strictly before today (date
	// granularity), not soft-deleted, with the parent loan's monthly rate.
	ListAccruable(ctx context.Context, today time.Time) ([]domain.AccruableInstallment, error)

	// UpdateLateInterest persists recalculated late-interest amounts keyed by
	// installment ID as one transaction.
	UpdateLateInterest(ctx context.Context, charges map[int32]decimal.Decimal) error

	CountOverdue(ctx context.Context) (int32, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID int32) ([]domain.Payment, error)
	ListByCollector(ctx context.Context, collectorID int32, from, to time.Time) ([]domain.Payment, error)
	SetDeleted(ctx context.Context, id int32, deleted bool) error
	TotalCollectedSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}

type CollectionRepository interface {
	Create(ctx context.Context, visit *domain.CollectionVisit) error
	GetByID(ctx context.Context, id int32) (*domain.CollectionVisit, error)
	Update(ctx context.Context, visit *domain.CollectionVisit) error
	SetDeleted(ctx context.Context, id int32, deleted bool) error
	ListByLoan(ctx context.Context, loanID int32) ([]domain.CollectionVisit, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter, page, pageSize int32) ([]domain.AuditLog, int32, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
}
