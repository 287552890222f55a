package backup

import (
	"context"
	"fmt"
	"strings"
	"time"

	sqladmin "google.golang.org/api/sqladmin/v1beta4"

	"microfinance-backend/internal/domain"
)

const operationStatusDone = "DONE"

// CloudSQLClient drives on-demand backups and restores of a Cloud SQL
// instance through the SQL Admin API.
type CloudSQLClient struct {
	service  *sqladmin.Service
	project  string
	instance string
}

// NewCloudSQLClient authenticates with application default credentials.
func NewCloudSQLClient(ctx context.Context, project, instance string) (*CloudSQLClient, error) {
	service, err := sqladmin.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create sqladmin service: %w", err)
	}
	return &CloudSQLClient{
		service:  service,
		project:  project,
		instance: instance,
	}, nil
}

func (c *CloudSQLClient) StartBackup(ctx context.Context) (string, error) {
	op, err := c.service.BackupRuns.Insert(c.project, c.instance, &sqladmin.BackupRun{}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to start backup: %w", err)
	}
	return op.Name, nil
}

func (c *CloudSQLClient) RestoreBackup(ctx context.Context, backupRunID int64) (string, error) {
	req := &sqladmin.InstancesRestoreBackupRequest{
		RestoreBackupContext: &sqladmin.RestoreBackupContext{
			BackupRunId: backupRunID,
			InstanceId:  c.instance,
		},
	}
	op, err := c.service.Instances.RestoreBackup(c.project, c.instance, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to start restore of backup %d: %w", backupRunID, err)
	}
	return op.Name, nil
}

func (c *CloudSQLClient) OperationStatus(ctx context.Context, operationName string) (OperationState, error) {
	op, err := c.service.Operations.Get(c.project, operationName).Context(ctx).Do()
	if err != nil {
		return OperationState{}, fmt.Errorf("failed to get operation %s: %w", operationName, err)
	}
	state := OperationState{Done: op.Status == operationStatusDone}
	if state.Done && op.Error != nil && len(op.Error.Errors) > 0 {
		msgs := make([]string, 0, len(op.Error.Errors))
		for _, e := range op.Error.Errors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Code, e.Message))
		}
		state.ErrorMessage = strings.Join(msgs, "; ")
	}
	return state, nil
}

func (c *CloudSQLClient) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	resp, err := c.service.BackupRuns.List(c.project, c.instance).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list backup runs: %w", err)
	}
	backups := make([]BackupInfo, 0, len(resp.Items))
	for _, run := range resp.Items {
		backups = append(backups, backupInfoFromRun(run))
	}
	return backups, nil
}

func (c *CloudSQLClient) LatestSuccessfulBackup(ctx context.Context) (*BackupInfo, error) {
	resp, err := c.service.BackupRuns.List(c.project, c.instance).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list backup runs: %w", err)
	}
	// The API returns runs newest first.
	for _, run := range resp.Items {
		if run.Status == "SUCCESSFUL" {
			info := backupInfoFromRun(run)
			return &info, nil
		}
	}
	return nil, domain.ErrNoBackupAvailable
}

func backupInfoFromRun(run *sqladmin.BackupRun) BackupInfo {
	info := BackupInfo{ID: run.Id, Status: run.Status}
	if t, err := time.Parse(time.RFC3339, run.EndTime); err == nil {
		info.EndTime = t
	}
	return info
}
