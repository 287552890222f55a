package service

import (
	"context"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type customerService struct {
	customerRepo repository.CustomerRepository
	auditSvc     AuditService
}

func NewCustomerService(customerRepo repository.CustomerRepository, auditSvc AuditService) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		auditSvc:     auditSvc,
	}
}

func (s *customerService) Create(ctx context.Context, actorID int32, customer *domain.Customer) error {
	customer.IsActive = true
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "customers", customer.ID, domain.AuditActionCreate, actorID)
	return nil
}

func (s *customerService) Get(ctx context.Context, id int32) (*domain.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, actorID int32, customer *domain.Customer) error {
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "customers", customer.ID, domain.AuditActionUpdate, actorID)
	return nil
}

func (s *customerService) Delete(ctx context.Context, actorID, id int32) error {
	if _, err := s.customerRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.customerRepo.SetDeleted(ctx, id, true); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "customers", id, domain.AuditActionDelete, actorID)
	return nil
}

func (s *customerService) Restore(ctx context.Context, actorID, id int32) error {
	if _, err := s.customerRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.customerRepo.SetDeleted(ctx, id, false); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "customers", id, domain.AuditActionRestore, actorID)
	return nil
}

func (s *customerService) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Customer, int32, error) {
	return s.customerRepo.List(ctx, search, page, pageSize)
}
