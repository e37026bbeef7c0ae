package conversation

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresLog persists chat messages to PostgreSQL.
type PostgresLog struct {
	db *sql.DB
}

// NewPostgresLog creates a log backed by db.
func NewPostgresLog(db *sql.DB) *PostgresLog {
	if db == nil {
		panic("conversation: sql db required")
	}
	return &PostgresLog{db: db}
}

// Append inserts one message.
func (l *PostgresLog) Append(ctx context.Context, entry LogEntry) error {
	var patientID sql.NullInt64
	if entry.PatientID != nil {
		patientID = sql.NullInt64{Int64: *entry.PatientID, Valid: true}
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO conversation_messages (session_id, patient_id, role, message)
		VALUES ($1, $2, $3, $4)
	`, entry.SessionID, patientID, entry.Role, entry.Message)
	if err != nil {
		return fmt.Errorf("conversation: append message: %w", err)
	}
	return nil
}

// RecentUserMessages returns the session's latest user messages, newest first.
func (l *PostgresLog) RecentUserMessages(ctx context.Context, sessionID string, limit int) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT message
		FROM conversation_messages
		WHERE session_id = $1 AND role = 'user'
		ORDER BY id DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("conversation: query recent messages: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, fmt.Errorf("conversation: scan message: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}
