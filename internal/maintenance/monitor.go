package maintenance

import (
	"context"
	"time"

	"microfinance-backend/internal/backup"
	"microfinance-backend/internal/logger"
)

// Monitor watches the operation recorded on the maintenance gate and lowers
// the gate when the operation finishes. It is the only component that clears
// the gate automatically; forced clears go through State.Clear directly.
type Monitor struct {
	state  *State
	client backup.Client

	pollInterval time.Duration

	// stayGatedOnError keeps the gate up after an operation finishes with an
	// error, leaving the clear to an operator.
	stayGatedOnError bool
}

func NewMonitor(state *State, client backup.Client, pollInterval time.Duration, stayGatedOnError bool) *Monitor {
	return &Monitor{
		state:            state,
		client:           client,
		pollInterval:     pollInterval,
		stayGatedOnError: stayGatedOnError,
	}
}

// Run polls until ctx is cancelled. The sleep between polls is cancellable so
// shutdown never waits out a full interval.
func (m *Monitor) Run(ctx context.Context) {
	log := logger.Get().With("component", "maintenance_monitor")
	log.Info("maintenance monitor started", "poll_interval", m.pollInterval)

	timer := time.NewTimer(m.pollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("maintenance monitor stopped")
			return
		case <-timer.C:
		}

		m.PollOnce(ctx)
		timer.Reset(m.pollInterval)
	}
}

// PollOnce checks the tracked operation once, if there is one. Run calls it
// on every tick.
func (m *Monitor) PollOnce(ctx context.Context) {
	snap := m.state.Current()
	if !snap.Active || snap.OperationName == "" {
		return
	}

	log := logger.Get().With("component", "maintenance_monitor", "operation", snap.OperationName)

	status, err := m.client.OperationStatus(ctx, snap.OperationName)
	if err != nil {
		// Transient API failure: keep the gate up and retry next tick.
		log.Warn("failed to poll operation status", "error", err)
		return
	}
	if !status.Done {
		log.Debug("operation still running")
		return
	}

	if status.Failed() {
		log.Error("maintenance operation finished with error", "operation_error", status.ErrorMessage)
		if m.stayGatedOnError {
			return
		}
		m.state.Clear("Last maintenance operation finished with an error: " + status.ErrorMessage)
		return
	}

	log.Info("maintenance operation completed")
	m.state.Clear("") // resets the message to the configured default
}
