package crawler

import (
	"errors"
	"sync"
	"time"
)

const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// maxErrorLog bounds the per-run error log so a pathological run cannot grow
// the session without limit.
const maxErrorLog = 50

var ErrSessionRunning = errors.New("crawl session already running")

// ErrorEntry is one failed item in a run.
type ErrorEntry struct {
	URL       string    `json:"url"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is an immutable copy of the session counters, safe to hand to the
// stats endpoint while a run is in flight.
type Snapshot struct {
	Status    string       `json:"status"`
	StartTime time.Time    `json:"start_time,omitzero"`
	EndTime   time.Time    `json:"end_time,omitzero"`
	TotalSeen int          `json:"total_seen"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Errors    []ErrorEntry `json:"errors,omitempty"`
}

// Result is the outcome of processing one item. A nil Err with Saved unset
// means the item was deliberately skipped (denied URL, already persisted).
type Result struct {
	URL   string
	Saved bool
	Err   error
}

// Session tracks counters for the current (or most recent) crawl run. All
// access goes through the mutex; workers record results concurrently while
// the stats endpoint reads snapshots.
type Session struct {
	mu        sync.Mutex
	status    string
	startTime time.Time
	endTime   time.Time
	totalSeen int
	succeeded int
	failed    int
	skipped   int
	errorLog  []ErrorEntry
}

func NewSession() *Session {
	return &Session{status: StatusIdle}
}

// Begin marks the session running and resets the counters. A second Begin
// while a run is in flight is a caller bug and is rejected.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusRunning {
		return ErrSessionRunning
	}

	s.status = StatusRunning
	s.startTime = time.Now().UTC()
	s.endTime = time.Time{}
	s.totalSeen = 0
	s.succeeded = 0
	s.failed = 0
	s.skipped = 0
	s.errorLog = nil
	return nil
}

// End closes the run. Callers must release browser tabs and workers first so
// the end timestamp covers the whole run.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRunning {
		return
	}
	s.status = StatusStopped
	s.endTime = time.Now().UTC()
}

// Record folds one item result into the counters.
func (s *Session) Record(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalSeen++
	switch {
	case r.Err != nil:
		s.failed++
		if len(s.errorLog) < maxErrorLog {
			s.errorLog = append(s.errorLog, ErrorEntry{
				URL:       r.URL,
				Message:   r.Err.Error(),
				Timestamp: time.Now().UTC(),
			})
		}
	case r.Saved:
		s.succeeded++
	default:
		s.skipped++
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Status:    s.status,
		StartTime: s.startTime,
		EndTime:   s.endTime,
		TotalSeen: s.totalSeen,
		Succeeded: s.succeeded,
		Failed:    s.failed,
		Skipped:   s.skipped,
	}
	if len(s.errorLog) > 0 {
		snap.Errors = make([]ErrorEntry, len(s.errorLog))
		copy(snap.Errors, s.errorLog)
	}
	return snap
}
