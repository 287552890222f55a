package service

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/backup"
	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/maintenance"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, *domain.User, error) // access, refresh, user
	Refresh(ctx context.Context, refreshToken string) (string, error)                        // new access token
}

type UserService interface {
	Create(ctx context.Context, actorID int32, name, email, password string, role domain.Role) (*domain.User, error)
	Get(ctx context.Context, id int32) (*domain.User, error)
	Update(ctx context.Context, actorID int32, user *domain.User, newPassword string) error
	List(ctx context.Context) ([]domain.User, error)
}

type CustomerService interface {
	Create(ctx context.Context, actorID int32, customer *domain.Customer) error
	Get(ctx context.Context, id int32) (*domain.Customer, error)
	Update(ctx context.Context, actorID int32, customer *domain.Customer) error
	Delete(ctx context.Context, actorID, id int32) error
	Restore(ctx context.Context, actorID, id int32) error
	List(ctx context.Context, search string, page, pageSize int32) ([]domain.Customer, int32, error)
}

type LoanService interface {
	// Originate creates the loan and generates its full installment schedule
	// in one transaction.
	Originate(ctx context.Context, actorID int32, loan *domain.Loan) ([]domain.Installment, error)
	Get(ctx context.Context, id int32) (*domain.Loan, error)
	ListInstallments(ctx context.Context, loanID int32) ([]domain.Installment, error)
	GetInstallment(ctx context.Context, id int32) (*domain.Installment, error)
	// RescheduleInstallment moves the due date of an unpaid installment.
	RescheduleInstallment(ctx context.Context, actorID, id int32, dueDate time.Time) (*domain.Installment, error)
	DeleteInstallment(ctx context.Context, actorID, id int32) error
	Cancel(ctx context.Context, actorID, id int32) error
	Delete(ctx context.Context, actorID, id int32) error
	List(ctx context.Context, customerID int32, status domain.LoanStatus, page, pageSize int32) ([]domain.Loan, int32, error)
}

type PaymentService interface {
	// Register records a payment against an installment, marks the
	// installment paid when fully covered and settles the loan when its last
	// installment is paid.
	Register(ctx context.Context, actorID, installmentID int32, amount decimal.Decimal, method string, paymentDate time.Time) (*domain.Payment, error)
	Get(ctx context.Context, id int32) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID int32) ([]domain.Payment, error)
	ListByCollector(ctx context.Context, collectorID int32, from, to time.Time) ([]domain.Payment, error)
	Void(ctx context.Context, actorID, id int32) error
}

type CollectionService interface {
	RecordVisit(ctx context.Context, actorID int32, visit *domain.CollectionVisit) error
	UpdateVisit(ctx context.Context, actorID int32, visit *domain.CollectionVisit) error
	ListByLoan(ctx context.Context, loanID int32) ([]domain.CollectionVisit, error)
}

type AuditService interface {
	// Record appends an audit entry. Failures are logged, never surfaced: an
	// audit write must not fail the business mutation it describes.
	Record(ctx context.Context, table string, recordID int32, action domain.AuditAction, userID int32)
	List(ctx context.Context, filter domain.AuditFilter, page, pageSize int32) ([]domain.AuditLog, int32, error)
}

type DashboardService interface {
	Summary(ctx context.Context) (*domain.DashboardSummary, error)
}

type ReportService interface {
	Collections(ctx context.Context, from, to time.Time) (*domain.CollectionsReport, error)
	Portfolio(ctx context.Context) (*domain.PortfolioReport, error)
}

// ReportRenderer writes an assembled report in some output format. The
// default renderer emits JSON; other formats plug in behind this interface.
type ReportRenderer interface {
	ContentType() string
	Render(w io.Writer, report interface{}) error
}

type EmailService interface {
	SendOverdueNotice(ctx context.Context, toEmail, customerName string, loanID int32, totalDue decimal.Decimal, daysLate int) error
}

// BackupService coordinates database backup and restore operations with the
// maintenance gate.
type BackupService interface {
	// StartBackup raises the maintenance gate, dispatches an on-demand backup
	// and records the operation for the monitor to track.
	StartBackup(ctx context.Context, actorID int32) (string, error)

	// StartRestore restores the given backup run, or the latest successful
	// backup when backupRunID is zero.
	StartRestore(ctx context.Context, actorID int32, backupRunID int64) (string, error)

	ListBackups(ctx context.Context) ([]backup.BackupInfo, error)
	Status(ctx context.Context) maintenance.Status

	// ClearMaintenance force-lowers the gate. Operator escape hatch for a
	// stuck or untracked maintenance window.
	ClearMaintenance(ctx context.Context, actorID int32, message string) error
}
