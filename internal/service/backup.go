package service

import (
	"context"

	"microfinance-backend/internal/backup"
	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/logger"
	"microfinance-backend/internal/maintenance"
)

type backupService struct {
	client      backup.Client
	state       *maintenance.State
	auditSvc    AuditService
	gateMessage string
}

func NewBackupService(client backup.Client, state *maintenance.State, auditSvc AuditService, gateMessage string) BackupService {
	return &backupService{
		client:      client,
		state:       state,
		auditSvc:    auditSvc,
		gateMessage: gateMessage,
	}
}

func (s *backupService) StartBackup(ctx context.Context, actorID int32) (string, error) {
	return s.dispatch(ctx, actorID, "backup", func() (string, error) {
		return s.client.StartBackup(ctx)
	})
}

func (s *backupService) StartRestore(ctx context.Context, actorID int32, backupRunID int64) (string, error) {
	if backupRunID == 0 {
		latest, err := s.client.LatestSuccessfulBackup(ctx)
		if err != nil {
			return "", err
		}
		backupRunID = latest.ID
	}
	return s.dispatch(ctx, actorID, "restore", func() (string, error) {
		return s.client.RestoreBackup(ctx, backupRunID)
	})
}

// dispatch runs one maintenance operation. The gate goes up before the cloud
// call is made, so no request can slip through between dispatch and the first
// monitor poll. A synchronous dispatch failure force-clears the gate; there
// is no operation for the monitor to wait on.
func (s *backupService) dispatch(ctx context.Context, actorID int32, kind string, start func() (string, error)) (string, error) {
	if !s.state.TryEnter(s.gateMessage) {
		return "", domain.ErrMaintenanceActive
	}

	operationName, err := start()
	if err != nil {
		s.state.Clear("Maintenance operation failed to start: " + err.Error())
		return "", err
	}
	s.state.SetOperation(operationName)

	logger.Info("maintenance operation dispatched", "kind", kind, "operation", operationName, "user_id", actorID)
	s.auditSvc.Record(ctx, "maintenance_operations", 0, domain.AuditActionCreate, actorID)
	return operationName, nil
}

func (s *backupService) ListBackups(ctx context.Context) ([]backup.BackupInfo, error) {
	return s.client.ListBackups(ctx)
}

func (s *backupService) Status(ctx context.Context) maintenance.Status {
	return s.state.Current()
}

func (s *backupService) ClearMaintenance(ctx context.Context, actorID int32, message string) error {
	s.state.Clear(message)
	logger.Warn("maintenance gate force-cleared", "user_id", actorID)
	s.auditSvc.Record(ctx, "maintenance_operations", 0, domain.AuditActionUpdate, actorID)
	return nil
}
