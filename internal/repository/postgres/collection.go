package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type collectionRepository struct {
	db *sql.DB
}

func NewCollectionRepository(db *sql.DB) repository.CollectionRepository {
	return &collectionRepository{db: db}
}

const visitColumns = `id, loan_id, collector_id, visit_date, result, notes, is_deleted, created_on`

func scanVisit(row interface{ Scan(...interface{}) error }, v *domain.CollectionVisit) error {
	return row.Scan(&v.ID, &v.LoanID, &v.CollectorID, &v.VisitDate, &v.Result, &v.Notes, &v.IsDeleted, &v.CreatedOn)
}

func (r *collectionRepository) Create(ctx context.Context, v *domain.CollectionVisit) error {
	query := `INSERT INTO collection_visits (loan_id, collector_id, visit_date, result, notes, is_deleted, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, v.LoanID, v.CollectorID, v.VisitDate, v.Result, v.Notes, v.IsDeleted, time.Now()).Scan(&v.ID)
}

func (r *collectionRepository) GetByID(ctx context.Context, id int32) (*domain.CollectionVisit, error) {
	v := &domain.CollectionVisit{}
	query := `SELECT ` + visitColumns + ` FROM collection_visits WHERE id = $1`
	err := scanVisit(r.db.QueryRowContext(ctx, query, id), v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *collectionRepository) Update(ctx context.Context, v *domain.CollectionVisit) error {
	query := `UPDATE collection_visits SET visit_date=$1, result=$2, notes=$3 WHERE id=$4`
	result, err := r.db.ExecContext(ctx, query, v.VisitDate, v.Result, v.Notes, v.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *collectionRepository) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	query := `UPDATE collection_visits SET is_deleted=$1 WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, deleted, id)
	return err
}

func (r *collectionRepository) ListByLoan(ctx context.Context, loanID int32) ([]domain.CollectionVisit, error) {
	query := `SELECT ` + visitColumns + ` FROM collection_visits WHERE loan_id = $1 AND is_deleted = false ORDER BY visit_date DESC`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []domain.CollectionVisit
	for rows.Next() {
		var v domain.CollectionVisit
		if err := scanVisit(rows, &v); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
