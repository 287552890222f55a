package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (full_name, id_card, phone_number, address, email, is_active, is_deleted, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, c.FullName, c.IDCard, c.PhoneNumber, c.Address, c.Email, c.IsActive, c.IsDeleted, now, now).Scan(&c.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateIDCard
	}
	return err
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, full_name, id_card, phone_number, address, email, is_active, is_deleted, created_on, updated_on
	          FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.FullName, &c.IDCard, &c.PhoneNumber, &c.Address, &c.Email, &c.IsActive, &c.IsDeleted, &c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) GetByIDCard(ctx context.Context, idCard string) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, full_name, id_card, phone_number, address, email, is_active, is_deleted, created_on, updated_on
	          FROM customers WHERE id_card = $1 AND is_deleted = false`
	err := r.db.QueryRowContext(ctx, query, idCard).Scan(&c.ID, &c.FullName, &c.IDCard, &c.PhoneNumber, &c.Address, &c.Email, &c.IsActive, &c.IsDeleted, &c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET full_name=$1, id_card=$2, phone_number=$3, address=$4, email=$5, is_active=$6, updated_on=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query, c.FullName, c.IDCard, c.PhoneNumber, c.Address, c.Email, c.IsActive, time.Now(), c.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateIDCard
	}
	return err
}

func (r *customerRepository) SetDeleted(ctx context.Context, id int32, deleted bool) error {
	query := `UPDATE customers SET is_deleted=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, deleted, time.Now(), id)
	return err
}

func (r *customerRepository) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Customer, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, full_name, id_card, phone_number, address, email, is_active, is_deleted, created_on, updated_on
	        FROM customers WHERE is_deleted = false`

	args := []interface{}{}
	argIdx := 1
	if search != "" {
		query += fmt.Sprintf(" AND (full_name ILIKE $%d OR id_card ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+search+"%")
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY full_name LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FullName, &c.IDCard, &c.PhoneNumber, &c.Address, &c.Email, &c.IsActive, &c.IsDeleted, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, count, rows.Err()
}

func (r *customerRepository) CountActive(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM customers WHERE is_active = true AND is_deleted = false`).Scan(&count)
	return count, err
}
