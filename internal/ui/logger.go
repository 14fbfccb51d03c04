package ui

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rail44/userlist/internal/log"
)

const maxLogEntries = 50

// LogEntry represents a single log message
type LogEntry struct {
	Level     string
	Message   string
	Timestamp time.Time
}

// logBuffer keeps the most recent records for the verbose footer.
// It is written from fetch commands as well as the update loop.
type logBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
}

func (b *logBuffer) add(r slog.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, LogEntry{
		Level:     r.Level.String(),
		Message:   log.FormatRecord(r),
		Timestamp: r.Time,
	})
	if len(b.entries) > maxLogEntries {
		b.entries = b.entries[len(b.entries)-maxLogEntries:]
	}
}

// recent returns up to n of the latest entries, oldest first
func (b *logBuffer) recent(n int) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := b.entries
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return append([]LogEntry(nil), entries...)
}

// newViewLogger returns a logger that records into buf
func newViewLogger(buf *logBuffer, level slog.Level) *slog.Logger {
	return log.NewCallbackLoggerWithAttrs(buf.add, level, slog.String("view", "userlist"))
}
