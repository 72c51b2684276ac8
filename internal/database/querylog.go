package database

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogEntry records one translated question and its execution outcome.
type LogEntry struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	SQL       string `json:"sql,omitempty"`
	Timestamp string `json:"timestamp"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	RowCount  int    `json:"row_count"`
}

// QueryLog is an append-only in-memory history of executed queries.
// Storage is unbounded within process lifetime; display callers use Recent.
type QueryLog struct {
	mu      sync.RWMutex
	entries []LogEntry
	now     func() time.Time
}

func NewQueryLog() *QueryLog {
	return &QueryLog{now: time.Now}
}

func (l *QueryLog) Append(question, query string, success bool, errMsg string, rowCount int) LogEntry {
	entry := LogEntry{
		ID:        uuid.NewString(),
		Question:  question,
		SQL:       query,
		Timestamp: l.now().Format("2006-01-02 15:04:05"),
		Success:   success,
		Error:     errMsg,
		RowCount:  rowCount,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	return entry
}

// All returns a copy of every entry in insertion order.
func (l *QueryLog) All() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns the last n entries, most recent last.
func (l *QueryLog) Recent(n int) []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]LogEntry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

func (l *QueryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *QueryLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
