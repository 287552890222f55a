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

var installmentCols = []string{"id", "loan_id", "number", "principal_amount", "interest_amount", "late_interest_amount", "paid_amount", "due_date", "payment_date", "status", "is_deleted", "created_on", "updated_on"}

func TestInstallmentRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewInstallmentRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(installmentCols).
			AddRow(1, 7, 1, "200.00", "100.00", "0.00", "0.00", time.Now(), nil, "PENDING", false, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM installments WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		installment, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.NotNil(t, installment)
		assert.Equal(t, int32(7), installment.LoanID)
		assert.Equal(t, domain.InstallmentStatusPending, installment.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM installments WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(installmentCols))

		installment, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, installment)
	})
}

func TestInstallmentRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewInstallmentRepository(db)
	ctx := context.Background()
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("PromotesMaturedPending", func(t *testing.T) {
		rows := sqlmock.NewRows(installmentCols).
			AddRow(1, 7, 1, "200.00", "100.00", "0.00", "0.00", asOf.AddDate(0, 0, -3), nil, "OVERDUE", false, time.Now(), time.Now()).
			AddRow(2, 8, 2, "150.00", "75.00", "0.00", "0.00", asOf.AddDate(0, 0, -1), nil, "OVERDUE", false, time.Now(), time.Now())

		mock.ExpectQuery("UPDATE installments").
			WithArgs(domain.InstallmentStatusOverdue, sqlmock.AnyArg(), domain.InstallmentStatusPending, asOf).
			WillReturnRows(rows)

		promoted, err := repo.MarkOverdue(ctx, asOf)
		assert.NoError(t, err)
		assert.Len(t, promoted, 2)
		assert.Equal(t, domain.InstallmentStatusOverdue, promoted[0].Status)
	})

	t.Run("NothingMatured", func(t *testing.T) {
		mock.ExpectQuery("UPDATE installments").
			WithArgs(domain.InstallmentStatusOverdue, sqlmock.AnyArg(), domain.InstallmentStatusPending, asOf).
			WillReturnRows(sqlmock.NewRows(installmentCols))

		promoted, err := repo.MarkOverdue(ctx, asOf)
		assert.NoError(t, err)
		assert.Empty(t, promoted)
	})
}

func TestInstallmentRepository_ListAccruable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewInstallmentRepository(db)
	ctx := context.Background()
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	cols := append(append([]string{}, installmentCols...), "monthly_interest_rate")
	rows := sqlmock.NewRows(cols).
		AddRow(4, 7, 2, "1000.00", "150.00", "0.00", "0.00", today.AddDate(0, 0, -10), nil, "OVERDUE", false, time.Now(), time.Now(), "15.00")

	mock.ExpectQuery("SELECT (.+) FROM installments i[\\s]+JOIN loans l ON l.id = i.loan_id").
		WithArgs(domain.InstallmentStatusOverdue, today).
		WillReturnRows(rows)

	items, err := repo.ListAccruable(ctx, today)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(4), items[0].ID)
	assert.True(t, items[0].MonthlyInterestRate.Equal(decimal.RequireFromString("15.00")))
}

func TestInstallmentRepository_UpdateLateInterest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewInstallmentRepository(db)
	ctx := context.Background()

	t.Run("WritesChargesInTransaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE installments SET late_interest_amount").
			WithArgs(decimal.NewFromInt(59), sqlmock.AnyArg(), int32(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateLateInterest(ctx, map[int32]decimal.Decimal{4: decimal.NewFromInt(59)})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyBatchSkipsTransaction", func(t *testing.T) {
		err := repo.UpdateLateInterest(ctx, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
