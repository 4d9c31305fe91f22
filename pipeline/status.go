package pipeline

import (
	"fmt"
	"sync"
	"time"
)

// Phase is the pipeline's position in a run
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseOrchestrating Phase = "orchestrating"
	PhaseCurating      Phase = "curating"
	PhasePublishing    Phase = "publishing"
	PhaseComplete      Phase = "complete"
	PhaseScrapped      Phase = "scrapped"
)

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Status is the JSON response for GET /api/curation/status
type Status struct {
	Phase Phase      `json:"phase"`
	RunID string     `json:"runId,omitempty"`
	Logs  []LogEntry `json:"logs"`
	Error string     `json:"error,omitempty"`
}

// statusTracker holds the live run state with thread-safe access
type statusTracker struct {
	mu      sync.RWMutex
	phase   Phase
	runID   string
	logs    []LogEntry
	maxLogs int
	lastErr error
	now     func() time.Time
}

func newStatusTracker(maxLogs int) *statusTracker {
	return &statusTracker{phase: PhaseIdle, maxLogs: maxLogs, now: time.Now}
}

// begin starts a new run, clearing the previous error and logs
func (s *statusTracker) begin(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = runID
	s.phase = PhaseOrchestrating
	s.lastErr = nil
	s.logs = s.logs[:0]
}

func (s *statusTracker) set(phase Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
}

func (s *statusTracker) addLog(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(fmt.Sprintf(format, args...))
}

// fail records err and moves to the scrapped phase
func (s *statusTracker) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseScrapped
	s.lastErr = err
	s.appendLocked(fmt.Sprintf("Error: %v", err))
}

// appendLocked keeps the last maxLogs entries (must hold lock)
func (s *statusTracker) appendLocked(msg string) {
	s.logs = append(s.logs, LogEntry{Timestamp: s.now(), Message: msg})
	if len(s.logs) > s.maxLogs {
		s.logs = s.logs[len(s.logs)-s.maxLogs:]
	}
}

func (s *statusTracker) snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		Phase: s.phase,
		RunID: s.runID,
		Logs:  append([]LogEntry{}, s.logs...),
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}
