package service

import (
	"context"
	"time"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type collectionService struct {
	collectionRepo repository.CollectionRepository
	loanRepo       repository.LoanRepository
	auditSvc       AuditService
}

func NewCollectionService(
	collectionRepo repository.CollectionRepository,
	loanRepo repository.LoanRepository,
	auditSvc AuditService,
) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		loanRepo:       loanRepo,
		auditSvc:       auditSvc,
	}
}

func (s *collectionService) RecordVisit(ctx context.Context, actorID int32, visit *domain.CollectionVisit) error {
	if _, err := s.loanRepo.GetByID(ctx, visit.LoanID); err != nil {
		return err
	}
	if visit.VisitDate.IsZero() {
		visit.VisitDate = time.Now()
	}
	visit.CollectorID = actorID
	if err := s.collectionRepo.Create(ctx, visit); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "collection_visits", visit.ID, domain.AuditActionCreate, actorID)
	return nil
}

func (s *collectionService) UpdateVisit(ctx context.Context, actorID int32, visit *domain.CollectionVisit) error {
	if err := s.collectionRepo.Update(ctx, visit); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "collection_visits", visit.ID, domain.AuditActionUpdate, actorID)
	return nil
}

func (s *collectionService) ListByLoan(ctx context.Context, loanID int32) ([]domain.CollectionVisit, error) {
	return s.collectionRepo.ListByLoan(ctx, loanID)
}
