package maintenance

import (
	"sync"
	"time"
)

// Status is one immutable snapshot of the maintenance gate. Readers get a
// copy; a request always sees a consistent flag/operation/message triple.
type Status struct {
	Active        bool      `json:"active"`
	OperationName string    `json:"operation_name,omitempty"`
	Message       string    `json:"message,omitempty"`
	StartedAt     time.Time `json:"started_at,omitempty"`
}

// State is the shared maintenance gate. All fields of the snapshot are
// swapped together under the lock so the gate never exposes a half-updated
// view (e.g. active with a stale operation name).
type State struct {
	mu         sync.RWMutex
	cur        Status
	defaultMsg string
}

// NewState builds a gate that falls back to defaultMessage whenever it is
// raised or cleared without an explicit message.
func NewState(defaultMessage string) *State {
	return &State{defaultMsg: defaultMessage}
}

// Current returns a copy of the gate snapshot.
func (s *State) Current() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Active reports whether the gate is up.
func (s *State) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Active
}

// TryEnter raises the gate before a maintenance operation is dispatched. It
// reports false when the gate is already up, so two concurrent dispatches
// cannot both start a cloud operation. The operation name is cleared;
// SetOperation attaches it once the dispatch returns an operation handle.
func (s *State) TryEnter(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.Active {
		return false
	}
	if message == "" {
		message = s.defaultMsg
	}
	s.cur = Status{
		Active:    true,
		Message:   message,
		StartedAt: time.Now(),
	}
	return true
}

// SetOperation records the cloud operation the monitor should track. A no-op
// when the gate is down (a late dispatch result after a forced clear must not
// resurrect a tracked operation).
func (s *State) SetOperation(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cur.Active {
		return
	}
	s.cur.OperationName = name
}

// Clear lowers the gate. A non-empty message survives the clear so operators
// can see why the last maintenance window ended; an empty message resets the
// gate to its configured default.
func (s *State) Clear(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message == "" {
		message = s.defaultMsg
	}
	s.cur = Status{Message: message}
}
