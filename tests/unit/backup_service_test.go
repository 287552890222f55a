package unit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"microfinance-backend/internal/backup"
	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/maintenance"
	"microfinance-backend/internal/service"
)

const gateMessage = "maintenance in progress"

// gateRecorderClient records whether the maintenance gate was already up at the
// moment the cloud operation was dispatched.
type gateRecorderClient struct {
	state            *maintenance.State
	activeAtDispatch bool
	dispatchErr      error
}

func (c *gateRecorderClient) StartBackup(ctx context.Context) (string, error) {
	c.activeAtDispatch = c.state.Active()
	if c.dispatchErr != nil {
		return "", c.dispatchErr
	}
	return "op-backup-1", nil
}

func (c *gateRecorderClient) RestoreBackup(ctx context.Context, backupRunID int64) (string, error) {
	c.activeAtDispatch = c.state.Active()
	if c.dispatchErr != nil {
		return "", c.dispatchErr
	}
	return "op-restore-1", nil
}

func (c *gateRecorderClient) OperationStatus(ctx context.Context, operationName string) (backup.OperationState, error) {
	return backup.OperationState{}, nil
}

func (c *gateRecorderClient) ListBackups(ctx context.Context) ([]backup.BackupInfo, error) {
	return nil, nil
}

func (c *gateRecorderClient) LatestSuccessfulBackup(ctx context.Context) (*backup.BackupInfo, error) {
	return &backup.BackupInfo{ID: 42, Status: "SUCCESSFUL"}, nil
}

func newAuditStub() service.AuditService {
	repo := new(MockAuditRepo)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil).Maybe()
	return service.NewAuditService(repo)
}

func TestBackupService_GateRaisedBeforeDispatch(t *testing.T) {
	state := maintenance.NewState(gateDefaultMessage)
	client := &gateRecorderClient{state: state}
	svc := service.NewBackupService(client, state, newAuditStub(), gateMessage)

	op, err := svc.StartBackup(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "op-backup-1", op)
	assert.True(t, client.activeAtDispatch, "gate must be up before the operation is dispatched")

	snap := state.Current()
	assert.True(t, snap.Active)
	assert.Equal(t, "op-backup-1", snap.OperationName)
	assert.Equal(t, gateMessage, snap.Message)
}

func TestBackupService_DispatchFailureClearsGate(t *testing.T) {
	state := maintenance.NewState(gateDefaultMessage)
	client := &gateRecorderClient{state: state, dispatchErr: errors.New("api unreachable")}
	svc := service.NewBackupService(client, state, newAuditStub(), gateMessage)

	_, err := svc.StartBackup(context.Background(), 1)

	assert.Error(t, err)
	snap := state.Current()
	assert.False(t, snap.Active, "a failed dispatch must not leave the gate up")
	assert.Contains(t, snap.Message, "failed to start")
}

func TestBackupService_RejectsConcurrentOperations(t *testing.T) {
	state := maintenance.NewState(gateDefaultMessage)
	client := &gateRecorderClient{state: state}
	svc := service.NewBackupService(client, state, newAuditStub(), gateMessage)

	_, err := svc.StartBackup(context.Background(), 1)
	assert.NoError(t, err)

	_, err = svc.StartRestore(context.Background(), 1, 5)
	assert.ErrorIs(t, err, domain.ErrMaintenanceActive)
}

// countingClient tallies how many cloud operations were actually started.
type countingClient struct {
	gateRecorderClient
	dispatches atomic.Int32
}

func (c *countingClient) StartBackup(ctx context.Context) (string, error) {
	c.dispatches.Add(1)
	return c.gateRecorderClient.StartBackup(ctx)
}

func TestBackupService_ConcurrentDispatchesStartOneOperation(t *testing.T) {
	state := maintenance.NewState(gateDefaultMessage)
	client := &countingClient{gateRecorderClient: gateRecorderClient{state: state}}
	svc := service.NewBackupService(client, state, newAuditStub(), gateMessage)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.StartBackup(context.Background(), 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var started, rejected int
	for err := range errs {
		switch {
		case err == nil:
			started++
		case errors.Is(err, domain.ErrMaintenanceActive):
			rejected++
		default:
			t.Fatalf("unexpected dispatch error: %v", err)
		}
	}

	assert.Equal(t, 1, started, "exactly one dispatch may win the gate")
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, int32(1), client.dispatches.Load(), "only the winner may reach the cloud API")
}

func TestBackupService_RestoreDefaultsToLatestBackup(t *testing.T) {
	state := maintenance.NewState(gateDefaultMessage)
	client := backup.NewMockClient()
	client.PollsUntilDone = 0
	svc := service.NewBackupService(client, state, newAuditStub(), gateMessage)

	// Seed one backup, then wait out its operation by clearing the gate.
	_, err := svc.StartBackup(context.Background(), 1)
	assert.NoError(t, err)
	state.Clear("")

	op, err := svc.StartRestore(context.Background(), 1, 0)
	assert.NoError(t, err)
	assert.NotEmpty(t, op)
	assert.True(t, state.Active())
}

func TestBackupService_RestoreWithoutAnyBackup(t *testing.T) {
	state := maintenance.NewState(gateDefaultMessage)
	svc := service.NewBackupService(backup.NewMockClient(), state, newAuditStub(), gateMessage)

	_, err := svc.StartRestore(context.Background(), 1, 0)

	assert.ErrorIs(t, err, domain.ErrNoBackupAvailable)
	assert.False(t, state.Active(), "no gate may be raised when there is nothing to restore")
}

func TestBackupService_ClearMaintenance(t *testing.T) {
	state := maintenance.NewState(gateDefaultMessage)
	client := &gateRecorderClient{state: state}
	svc := service.NewBackupService(client, state, newAuditStub(), gateMessage)

	_, err := svc.StartBackup(context.Background(), 1)
	assert.NoError(t, err)

	err = svc.ClearMaintenance(context.Background(), 1, "operator override")
	assert.NoError(t, err)

	snap := state.Current()
	assert.False(t, snap.Active)
	assert.Equal(t, "operator override", snap.Message)
}
