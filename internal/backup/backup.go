package backup

import (
	"context"
	"fmt"
	"time"

	"microfinance-backend/internal/config"
)

// OperationState is the poll result for a running backup or restore
// operation. ErrorMessage is only meaningful once Done is true.
type OperationState struct {
	Done         bool
	ErrorMessage string
}

// Failed reports whether the operation finished with an error.
func (s OperationState) Failed() bool {
	return s.Done && s.ErrorMessage != ""
}

// BackupInfo describes one backup run on the database instance.
type BackupInfo struct {
	ID      int64     `json:"id"`
	Status  string    `json:"status"`
	EndTime time.Time `json:"end_time"`
}

// Client talks to the database instance's backup facility. Both operations
// return the name of a long-running operation; the caller tracks completion
// through OperationStatus.
type Client interface {
	StartBackup(ctx context.Context) (operationName string, err error)
	RestoreBackup(ctx context.Context, backupRunID int64) (operationName string, err error)
	OperationStatus(ctx context.Context, operationName string) (OperationState, error)
	ListBackups(ctx context.Context) ([]BackupInfo, error)

	// LatestSuccessfulBackup returns the most recent backup run whose status
	// is SUCCESSFUL, or domain.ErrNoBackupAvailable when none exists.
	LatestSuccessfulBackup(ctx context.Context) (*BackupInfo, error)
}

// NewClient builds the backup client selected by configuration. "mock" keeps
// local development off real cloud credentials.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.GCloud.ClientType {
	case "cloudsql":
		return NewCloudSQLClient(ctx, cfg.GCloud.ProjectID, cfg.GCloud.SQLInstanceID)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown backup client type %q", cfg.GCloud.ClientType)
	}
}
