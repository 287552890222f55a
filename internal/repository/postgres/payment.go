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

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, loan_id, installment_id, payment_date, amount, method, reference, collector_id, is_deleted, created_on`

func scanPayment(row interface{ Scan(...interface{}) error }, p *domain.Payment) error {
	return row.Scan(&p.ID, &p.LoanID, &p.InstallmentID, &p.PaymentDate, &p.Amount, &p.Method, &p.Reference, &p.CollectorID, &p.IsDeleted, &p.CreatedOn)
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (loan_id, installment_id, payment_date, amount, method, reference, collector_id, is_deleted, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, p.LoanID, p.InstallmentID, p.PaymentDate, p.Amount, p.Method, p.Reference, p.CollectorID, p.IsDeleted, time.Now()).Scan(&p.ID)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	err := scanPayment(r.db.QueryRowContext(ctx, query, id), p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID int32) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE loan_id = $1 AND is_deleted = false ORDER BY payment_date DESC`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) ListByCollector(ctx context.Context, collectorID int32, from, to time.Time) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
	          WHERE collector_id = $1 AND payment_date >= $2 AND payment_date < $3 AND is_deleted = false
	          ORDER BY payment_date`
	rows, err := r.db.QueryContext(ctx, query, collectorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	query := `UPDATE payments SET is_deleted=$1 WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, deleted, id)
	return err
}

func (r *paymentRepository) TotalCollectedSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_date >= $1 AND is_deleted = false`
	err := r.db.QueryRowContext(ctx, query, since).Scan(&total)
	return total, err
}
