package service

import (
	"context"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/logger"
	"microfinance-backend/internal/repository"
)

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, table string, recordID int32, action domain.AuditAction, userID int32) {
	entry := &domain.AuditLog{
		AffectedTable: table,
		RecordID:      recordID,
		Action:        action,
		UserID:        userID,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		logger.Error("failed to append audit log",
			"table", table,
			"record_id", recordID,
			"action", action,
			"error", err)
	}
}

func (s *auditService) List(ctx context.Context, filter domain.AuditFilter, page, pageSize int32) ([]domain.AuditLog, int32, error) {
	return s.auditRepo.List(ctx, filter, page, pageSize)
}
