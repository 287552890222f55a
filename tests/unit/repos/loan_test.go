package repos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository/postgres"
)

var loanCols = []string{"id", "customer_id", "seller_id", "amount", "current_balance", "monthly_interest_rate", "term_months", "start_date", "due_date", "status", "is_deleted", "created_on", "updated_on"}

func TestLoanRepository_CreateWithSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewLoanRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	loan := &domain.Loan{
		CustomerID:          5,
		SellerID:            2,
		Amount:              decimal.NewFromInt(1000),
		CurrentBalance:      decimal.NewFromInt(1300),
		MonthlyInterestRate: decimal.NewFromInt(15),
		TermMonths:          2,
		StartDate:           start,
		DueDate:             start.AddDate(0, 2, 0),
		Status:              domain.LoanStatusActive,
	}
	schedule := []domain.Installment{
		{Number: 1, PrincipalAmount: decimal.NewFromInt(500), InterestAmount: decimal.NewFromInt(150), DueDate: start.AddDate(0, 1, 0), Status: domain.InstallmentStatusPending},
		{Number: 2, PrincipalAmount: decimal.NewFromInt(500), InterestAmount: decimal.NewFromInt(150), DueDate: start.AddDate(0, 2, 0), Status: domain.InstallmentStatusPending},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO loans").
		WithArgs(loan.CustomerID, loan.SellerID, loan.Amount, loan.CurrentBalance, loan.MonthlyInterestRate,
			loan.TermMonths, loan.StartDate, loan.DueDate, loan.Status, loan.IsDeleted, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("INSERT INTO installments").
		WithArgs(int32(11), int32(1), schedule[0].PrincipalAmount, schedule[0].InterestAmount, schedule[0].LateInterestAmount,
			schedule[0].PaidAmount, schedule[0].DueDate, schedule[0].Status, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectQuery("INSERT INTO installments").
		WithArgs(int32(11), int32(2), schedule[1].PrincipalAmount, schedule[1].InterestAmount, schedule[1].LateInterestAmount,
			schedule[1].PaidAmount, schedule[1].DueDate, schedule[1].Status, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(22))
	mock.ExpectCommit()

	err = repo.CreateWithSchedule(ctx, loan, schedule)
	assert.NoError(t, err)
	assert.Equal(t, int32(11), loan.ID)
	assert.Equal(t, int32(11), schedule[0].LoanID)
	assert.Equal(t, int32(21), schedule[0].ID)
	assert.Equal(t, int32(22), schedule[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewLoanRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(loanCols).
			AddRow(11, 5, 2, "1000.00", "1300.00", "15.00", 2, time.Now(), time.Now(), "ACTIVE", false, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM loans WHERE id = \\$1").
			WithArgs(int32(11)).
			WillReturnRows(rows)

		loan, err := repo.GetByID(ctx, 11)
		assert.NoError(t, err)
		assert.NotNil(t, loan)
		assert.Equal(t, domain.LoanStatusActive, loan.Status)
		assert.True(t, loan.Amount.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM loans WHERE id = \\$1").
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows(loanCols))

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLoanRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewLoanRepository(db)
	ctx := context.Background()
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(loanCols).
		AddRow(11, 5, 2, "1000.00", "800.00", "15.00", 2, asOf.AddDate(0, -3, 0), asOf.AddDate(0, 0, -1), "OVERDUE", false, time.Now(), time.Now())

	mock.ExpectQuery("UPDATE loans").
		WithArgs(domain.LoanStatusOverdue, sqlmock.AnyArg(), domain.LoanStatusActive, asOf).
		WillReturnRows(rows)

	promoted, err := repo.MarkOverdue(ctx, asOf)
	assert.NoError(t, err)
	assert.Len(t, promoted, 1)
	assert.Equal(t, domain.LoanStatusOverdue, promoted[0].Status)
}
