package conversation

import (
	"context"
	"sync"
	"time"
)

const lookbackTurns = 5

// LogEntry is one stored chat message.
type LogEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	PatientID *int64    `json:"patient_id,omitempty"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationLog records every chat message.
type ConversationLog interface {
	Append(ctx context.Context, entry LogEntry) error
	// RecentUserMessages returns up to limit user messages of a session,
	// newest first.
	RecentUserMessages(ctx context.Context, sessionID string, limit int) ([]string, error)
}

// MemoryLog keeps the conversation log in process memory.
type MemoryLog struct {
	mu      sync.RWMutex
	entries []LogEntry
	now     func() time.Time
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{now: time.Now}
}

func (l *MemoryLog) Append(ctx context.Context, entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.ID = int64(len(l.entries) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now().UTC()
	}
	l.entries = append(l.entries, entry)
	return nil
}

func (l *MemoryLog) RecentUserMessages(ctx context.Context, sessionID string, limit int) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []string
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := l.entries[i]
		if e.SessionID == sessionID && e.Role == RoleUser {
			out = append(out, e.Message)
		}
	}
	return out, nil
}

// Entries returns a copy of the log in insertion order.
func (l *MemoryLog) Entries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
