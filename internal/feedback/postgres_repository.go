package feedback

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores feedback in the relational database.
type PostgresRepository struct {
	db pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("feedback: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithDB(db pgxQuerier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new feedback row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateFeedbackRequest) (*Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	fb := &Feedback{
		PatientID: req.PatientID,
		SessionID: req.SessionID,
		Sentiment: req.Sentiment,
		Message:   req.Message,
		Urgent:    req.Urgent,
	}
	query := `
		INSERT INTO feedback (patient_id, session_id, sentiment, message, urgent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.db.QueryRow(ctx, query, req.PatientID, req.SessionID, req.Sentiment, req.Message, req.Urgent).
		Scan(&fb.ID, &fb.CreatedAt); err != nil {
		return nil, fmt.Errorf("feedback: insert failed: %w", err)
	}
	return fb, nil
}

// ListRecent returns the newest feedback first, joined with patients.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]Listing, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT f.id, f.patient_id, f.session_id, f.sentiment, f.message, f.urgent, f.created_at,
		       COALESCE(p.name, ''), COALESCE(p.phone, '')
		FROM feedback f
		LEFT JOIN patients p ON f.patient_id = p.id
		ORDER BY f.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("feedback: list: %w", err)
	}
	defer rows.Close()

	out := []Listing{}
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ID, &l.PatientID, &l.SessionID, &l.Sentiment, &l.Message, &l.Urgent, &l.CreatedAt, &l.Name, &l.Phone); err != nil {
			return nil, fmt.Errorf("feedback: scan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
