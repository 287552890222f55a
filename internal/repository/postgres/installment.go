package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type installmentRepository struct {
	db *sql.DB
}

func NewInstallmentRepository(db *sql.DB) repository.InstallmentRepository {
	return &installmentRepository{db: db}
}

const installmentColumns = `id, loan_id, number, principal_amount, interest_amount, late_interest_amount, paid_amount, due_date, payment_date, status, is_deleted, created_on, updated_on`

func scanInstallment(row interface{ Scan(...interface{}) error }, i *domain.Installment) error {
	return row.Scan(&i.ID, &i.LoanID, &i.Number, &i.PrincipalAmount, &i.InterestAmount, &i.LateInterestAmount, &i.PaidAmount, &i.DueDate, &i.PaymentDate, &i.Status, &i.IsDeleted, &i.CreatedOn, &i.UpdatedOn)
}

func (r *installmentRepository) GetByID(ctx context.Context, id int32) (*domain.Installment, error) {
	i := &domain.Installment{}
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1`
	err := scanInstallment(r.db.QueryRowContext(ctx, query, id), i)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *installmentRepository) ListByLoan(ctx context.Context, loanID int32) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 AND is_deleted = false ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []domain.Installment
	for rows.Next() {
		var i domain.Installment
		if err := scanInstallment(rows, &i); err != nil {
			return nil, err
		}
		installments = append(installments, i)
	}
	return installments, rows.Err()
}

func (r *installmentRepository) Update(ctx context.Context, i *domain.Installment) error {
	query := `UPDATE installments
	          SET late_interest_amount=$1, paid_amount=$2, due_date=$3, payment_date=$4, status=$5, updated_on=$6
	          WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, i.LateInterestAmount, i.PaidAmount, i.DueDate, i.PaymentDate, i.Status, time.Now(), i.ID)
	return err
}

func (r *installmentRepository) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	query := `UPDATE installments SET is_deleted=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, deleted, time.Now(), id)
	return err
}

func (r *installmentRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Installment, error) {
	query := `UPDATE installments
	          SET status = $1, updated_on = $2
	          WHERE status = $3 AND due_date < $4 AND is_deleted = false
	          RETURNING ` + installmentColumns
	rows, err := r.db.QueryContext(ctx, query, domain.InstallmentStatusOverdue, time.Now(), domain.InstallmentStatusPending, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promoted []domain.Installment
	for rows.Next() {
		var i domain.Installment
		if err := scanInstallment(rows, &i); err != nil {
			return nil, err
		}
		promoted = append(promoted, i)
	}
	return promoted, rows.Err()
}

func (r *installmentRepository) ListAccruable(ctx context.Context, today time.Time) ([]domain.AccruableInstallment, error) {
	// due_date is compared at date granularity: an installment that became
	// overdue earlier today is never charged late interest on the same day.
	query := `SELECT i.id, i.loan_id, i.number, i.principal_amount, i.interest_amount, i.late_interest_amount, i.paid_amount,
	                 i.due_date, i.payment_date, i.status, i.is_deleted, i.created_on, i.updated_on,
	                 l.monthly_interest_rate
	          FROM installments i
	          JOIN loans l ON l.id = i.loan_id
	          WHERE i.status = $1
	            AND i.due_date::date < $2::date
	            AND i.payment_date IS NULL
	            AND i.is_deleted = false
	          ORDER BY i.id`
	rows, err := r.db.QueryContext(ctx, query, domain.InstallmentStatusOverdue, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.AccruableInstallment
	for rows.Next() {
		var a domain.AccruableInstallment
		err := rows.Scan(&a.ID, &a.LoanID, &a.Number, &a.PrincipalAmount, &a.InterestAmount, &a.LateInterestAmount, &a.PaidAmount,
			&a.DueDate, &a.PaymentDate, &a.Status, &a.IsDeleted, &a.CreatedOn, &a.UpdatedOn,
			&a.MonthlyInterestRate)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *installmentRepository) UpdateLateInterest(ctx context.Context, charges map[int32]decimal.Decimal) error {
	if len(charges) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE installments SET late_interest_amount=$1, updated_on=$2 WHERE id=$3`
	now := time.Now()
	for id, amount := range charges {
		if _, err := tx.ExecContext(ctx, query, amount, now, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *installmentRepository) CountOverdue(ctx context.Context) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM installments WHERE status = $1 AND is_deleted = false`
	err := r.db.QueryRowContext(ctx, query, domain.InstallmentStatusOverdue).Scan(&count)
	return count, err
}
