package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, customer_id, seller_id, amount, current_balance, monthly_interest_rate, term_months, start_date, due_date, status, is_deleted, created_on, updated_on`

func scanLoan(row interface{ Scan(...interface{}) error }, l *domain.Loan) error {
	return row.Scan(&l.ID, &l.CustomerID, &l.SellerID, &l.Amount, &l.CurrentBalance, &l.MonthlyInterestRate, &l.TermMonths, &l.StartDate, &l.DueDate, &l.Status, &l.IsDeleted, &l.CreatedOn, &l.UpdatedOn)
}

func (r *loanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedule []domain.Installment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	loanQuery := `INSERT INTO loans (customer_id, seller_id, amount, current_balance, monthly_interest_rate, term_months, start_date, due_date, status, is_deleted, created_on, updated_on)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err = tx.QueryRowContext(ctx, loanQuery,
		loan.CustomerID, loan.SellerID, loan.Amount, loan.CurrentBalance, loan.MonthlyInterestRate,
		loan.TermMonths, loan.StartDate, loan.DueDate, loan.Status, loan.IsDeleted, now, now,
	).Scan(&loan.ID)
	if err != nil {
		return err
	}

	instQuery := `INSERT INTO installments (loan_id, number, principal_amount, interest_amount, late_interest_amount, paid_amount, due_date, status, is_deleted, created_on, updated_on)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	for i := range schedule {
		inst := &schedule[i]
		inst.LoanID = loan.ID
		err = tx.QueryRowContext(ctx, instQuery,
			inst.LoanID, inst.Number, inst.PrincipalAmount, inst.InterestAmount, inst.LateInterestAmount,
			inst.PaidAmount, inst.DueDate, inst.Status, inst.IsDeleted, now, now,
		).Scan(&inst.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	l := &domain.Loan{}
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	err := scanLoan(r.db.QueryRowContext(ctx, query, id), l)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) Update(ctx context.Context, l *domain.Loan) error {
	query := `UPDATE loans SET current_balance=$1, due_date=$2, status=$3, updated_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, l.CurrentBalance, l.DueDate, l.Status, time.Now(), l.ID)
	return err
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id int32, status domain.LoanStatus) error {
	query := `UPDATE loans SET status=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *loanRepository) UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) error {
	query := `UPDATE loans SET current_balance=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, balance, time.Now(), id)
	return err
}

func (r *loanRepository) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	query := `UPDATE loans SET is_deleted=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, deleted, time.Now(), id)
	return err
}

func (r *loanRepository) List(ctx context.Context, customerID int32, status domain.LoanStatus, page, pageSize int32) ([]domain.Loan, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + loanColumns + ` FROM loans WHERE is_deleted = false`

	args := []interface{}{}
	argIdx := 1
	if customerID != 0 {
		query += fmt.Sprintf(" AND customer_id = $%d", argIdx)
		args = append(args, customerID)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := scanLoan(rows, &l); err != nil {
			return nil, 0, err
		}
		loans = append(loans, l)
	}
	return loans, count, rows.Err()
}

func (r *loanRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	query := `UPDATE loans
	          SET status = $1, updated_on = $2
	          WHERE status = $3 AND due_date < $4 AND is_deleted = false
	          RETURNING ` + loanColumns
	rows, err := r.db.QueryContext(ctx, query, domain.LoanStatusOverdue, time.Now(), domain.LoanStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promoted []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := scanLoan(rows, &l); err != nil {
			return nil, err
		}
		promoted = append(promoted, l)
	}
	return promoted, rows.Err()
}

func (r *loanRepository) CountByStatus(ctx context.Context, status domain.LoanStatus) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE status = $1 AND is_deleted = false`, status).Scan(&count)
	return count, err
}

func (r *loanRepository) OutstandingBalance(ctx context.Context) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `SELECT COALESCE(SUM(current_balance), 0) FROM loans WHERE status IN ($1, $2) AND is_deleted = false`
	err := r.db.QueryRowContext(ctx, query, domain.LoanStatusActive, domain.LoanStatusOverdue).Scan(&balance)
	return balance, err
}
