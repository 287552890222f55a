package postgres

import (
	"database/sql"

	"microfinance-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.CustomerRepository
	repository.LoanRepository
	repository.InstallmentRepository
	repository.PaymentRepository
	repository.CollectionRepository
	repository.AuditRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		CustomerRepository:    NewCustomerRepository(db),
		LoanRepository:        NewLoanRepository(db),
		InstallmentRepository: NewInstallmentRepository(db),
		PaymentRepository:     NewPaymentRepository(db),
		CollectionRepository:  NewCollectionRepository(db),
		AuditRepository:       NewAuditRepository(db),
		UserRepository:        NewUserRepository(db),
	}
}
