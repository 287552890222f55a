package repos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository/postgres"
)

var customerCols = []string{"id", "full_name", "id_card", "phone_number", "address", "email", "is_active", "is_deleted", "created_on", "updated_on"}

func TestCustomerRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewCustomerRepository(db)
	ctx := context.Background()

	customer := &domain.Customer{
		FullName:    "Maria Lopez",
		IDCard:      "001-1234567-8",
		PhoneNumber: "809-555-0101",
		Address:     "Calle Duarte 12",
		Email:       "maria@example.com",
		IsActive:    true,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO customers").
			WithArgs(customer.FullName, customer.IDCard, customer.PhoneNumber, customer.Address, customer.Email, customer.IsActive, customer.IsDeleted, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		err := repo.Create(ctx, customer)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), customer.ID)
	})

	t.Run("DuplicateIDCard", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO customers").
			WithArgs(customer.FullName, customer.IDCard, customer.PhoneNumber, customer.Address, customer.Email, customer.IsActive, customer.IsDeleted, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, customer)
		assert.ErrorIs(t, err, domain.ErrDuplicateIDCard)
	})
}

func TestCustomerRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(customerCols).
			AddRow(5, "Maria Lopez", "001-1234567-8", "809-555-0101", "Calle Duarte 12", "maria@example.com", true, false, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs(int32(5)).
			WillReturnRows(rows)

		customer, err := repo.GetByID(ctx, 5)
		assert.NoError(t, err)
		assert.Equal(t, "Maria Lopez", customer.FullName)
		assert.True(t, customer.IsActive)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(customerCols))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCustomerRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewCustomerRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM").
		WithArgs("%lopez%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE is_deleted = false AND").
		WithArgs("%lopez%", int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows(customerCols).
			AddRow(5, "Maria Lopez", "001-1234567-8", "809-555-0101", "Calle Duarte 12", "maria@example.com", true, false, time.Now(), time.Now()))

	customers, total, err := repo.List(ctx, "lopez", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Len(t, customers, 1)
	assert.Equal(t, "Maria Lopez", customers[0].FullName)
}
