package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_active, created_on, updated_on`

func scanUser(row interface{ Scan(...interface{}) error }, u *domain.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedOn, &u.UpdatedOn)
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	now := time.Now()
	query := `INSERT INTO users (name, email, password_hash, role, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role, u.IsActive, now, now).Scan(&u.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := scanUser(r.db.QueryRowContext(ctx, query, id), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, email=$2, password_hash=$3, role=$4, is_active=$5, updated_on=$6 WHERE id=$7`
	result, err := r.db.ExecContext(ctx, query, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role, u.IsActive, time.Now(), u.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
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

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// isUniqueViolation reports whether err is a postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
