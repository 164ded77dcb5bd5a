// Package status tracks the state of the (single-flight) generation run.
//
// The tracker replaces what the admin UI used to poll as a bare global: a
// busy flag, progress percentage, message, log list, and last error. It is
// injectable and mutex-guarded so handlers, the generation worker, and SSE
// subscribers can share it safely.
package status

import (
	"log/slog"
	"sync"
	"time"
)

// LogEntry is one timestamped line in the run log shown by the dashboard.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Level     string `json:"level"`
}

// Snapshot is the point-in-time state returned to clients. Field names match
// the admin dashboard's contract.
type Snapshot struct {
	IsProcessing bool       `json:"is_processing"`
	Progress     int        `json:"progress"`
	Message      string     `json:"message"`
	Logs         []LogEntry `json:"logs"`
	Error        string     `json:"error"`
}

// Tracker is the shared status record. Only one generation run may hold it
// at a time; TryStart is the single-flight gate.
type Tracker struct {
	logger *slog.Logger

	mu   sync.Mutex
	snap Snapshot

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// NewTracker creates an idle tracker.
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{
		logger: logger,
		snap:   Snapshot{Logs: []LogEntry{}},
		subs:   make(map[int]chan Snapshot),
	}
}

// TryStart claims the tracker for a new run. It returns false while another
// run is active; on success the progress, logs, and error are cleared.
func (t *Tracker) TryStart() bool {
	t.mu.Lock()
	if t.snap.IsProcessing {
		t.mu.Unlock()
		return false
	}
	t.snap = Snapshot{IsProcessing: true, Logs: []LogEntry{}}
	snap := t.copySnapshot()
	t.mu.Unlock()

	t.notify(snap)
	return true
}

// Update records a progress checkpoint and logs the message.
func (t *Tracker) Update(progress int, message string) {
	t.mu.Lock()
	t.snap.Progress = progress
	t.snap.Message = message
	t.appendLog("info", message)
	snap := t.copySnapshot()
	t.mu.Unlock()

	t.logger.Info(message, "progress", progress)
	t.notify(snap)
}

// Log appends a line to the run log without touching progress.
func (t *Tracker) Log(level, message string) {
	t.mu.Lock()
	t.appendLog(level, message)
	snap := t.copySnapshot()
	t.mu.Unlock()

	t.notify(snap)
}

// Fail records the error, drives progress to 100 so pollers see the run end,
// and releases the busy flag.
func (t *Tracker) Fail(message string) {
	t.mu.Lock()
	t.snap.Error = message
	t.snap.Progress = 100
	t.snap.Message = message
	t.appendLog("error", message)
	t.snap.IsProcessing = false
	snap := t.copySnapshot()
	t.mu.Unlock()

	t.logger.Error("generation run failed", "error", message)
	t.notify(snap)
}

// Finish marks the run complete (progress 100) and releases the busy flag.
func (t *Tracker) Finish(message string) {
	t.mu.Lock()
	t.snap.Progress = 100
	t.snap.Message = message
	t.appendLog("success", message)
	t.snap.IsProcessing = false
	snap := t.copySnapshot()
	t.mu.Unlock()

	t.logger.Info(message)
	t.notify(snap)
}

// Reset unconditionally clears the status record. It does not stop an
// in-flight run; that run will keep writing into the cleared record.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.snap = Snapshot{Logs: []LogEntry{}}
	snap := t.copySnapshot()
	t.mu.Unlock()

	t.notify(snap)
}

// Get returns a copy of the current state.
func (t *Tracker) Get() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copySnapshot()
}

// Subscribe registers a listener for state changes. The returned cancel
// function must be called to release the subscription. Slow listeners miss
// intermediate snapshots instead of blocking the pipeline.
func (t *Tracker) Subscribe() (<-chan Snapshot, func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan Snapshot, 8)
	t.subs[id] = ch

	cancel := func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		if _, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// appendLog must be called with t.mu held.
func (t *Tracker) appendLog(level, message string) {
	t.snap.Logs = append(t.snap.Logs, LogEntry{
		Timestamp: time.Now().Format("15:04:05"),
		Message:   message,
		Level:     level,
	})
}

// copySnapshot must be called with t.mu held.
func (t *Tracker) copySnapshot() Snapshot {
	snap := t.snap
	snap.Logs = make([]LogEntry, len(t.snap.Logs))
	copy(snap.Logs, t.snap.Logs)
	return snap
}

func (t *Tracker) notify(snap Snapshot) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- snap:
		default:
			// Listener is behind; it will catch up on the next change.
		}
	}
}
