package backup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"microfinance-backend/internal/domain"
)

// MockClient is an in-memory backup client for local development and tests.
// Operations complete after a fixed number of status polls so the monitor
// loop can be exercised without cloud credentials.
type MockClient struct {
	mu sync.Mutex

	backups      []BackupInfo
	nextBackupID int64

	// polls remaining until each operation reports done
	operations map[string]int
	// operations that should finish with an error
	failures map[string]string

	// PollsUntilDone controls how many OperationStatus calls an operation
	// stays pending for. Zero means operations complete on the first poll.
	PollsUntilDone int
}

func NewMockClient() *MockClient {
	return &MockClient{
		nextBackupID:   1,
		operations:     make(map[string]int),
		failures:       make(map[string]string),
		PollsUntilDone: 1,
	}
}

func (m *MockClient) StartBackup(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.backups = append([]BackupInfo{{
		ID:      m.nextBackupID,
		Status:  "SUCCESSFUL",
		EndTime: time.Now(),
	}}, m.backups...)
	m.nextBackupID++

	return m.newOperation(), nil
}

func (m *MockClient) RestoreBackup(ctx context.Context, backupRunID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for _, b := range m.backups {
		if b.ID == backupRunID {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("backup run %d not found", backupRunID)
	}

	return m.newOperation(), nil
}

func (m *MockClient) OperationStatus(ctx context.Context, operationName string) (OperationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	remaining, ok := m.operations[operationName]
	if !ok {
		return OperationState{}, fmt.Errorf("operation %s not found", operationName)
	}
	if remaining > 0 {
		m.operations[operationName] = remaining - 1
		return OperationState{}, nil
	}
	return OperationState{Done: true, ErrorMessage: m.failures[operationName]}, nil
}

func (m *MockClient) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	backups := make([]BackupInfo, len(m.backups))
	copy(backups, m.backups)
	return backups, nil
}

func (m *MockClient) LatestSuccessfulBackup(ctx context.Context) (*BackupInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.backups {
		if b.Status == "SUCCESSFUL" {
			info := b
			return &info, nil
		}
	}
	return nil, domain.ErrNoBackupAvailable
}

// FailOperation marks an already dispatched operation to finish with the
// given error message. Test hook.
func (m *MockClient) FailOperation(operationName, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[operationName] = message
}

func (m *MockClient) newOperation() string {
	name := uuid.New().String()
	m.operations[name] = m.PollsUntilDone
	return name
}
