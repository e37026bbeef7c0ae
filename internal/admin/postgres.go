package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresReporter computes the summary with aggregate queries.
type PostgresReporter struct {
	db  pgxQuerier
	loc *time.Location
}

func NewPostgresReporter(pool *pgxpool.Pool, loc *time.Location) *PostgresReporter {
	if pool == nil {
		panic("admin: pgx pool required")
	}
	return newPostgresReporterWithDB(pool, loc)
}

func newPostgresReporterWithDB(db pgxQuerier, loc *time.Location) *PostgresReporter {
	if loc == nil {
		loc = time.UTC
	}
	return &PostgresReporter{db: db, loc: loc}
}

func (r *PostgresReporter) Summary(ctx context.Context, day time.Time) (*Summary, error) {
	local := day.In(r.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.loc)
	end := start.AddDate(0, 0, 1)
	today := start.Format(dateLayout)

	out := &Summary{}

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT session_id) FROM conversation_messages
		WHERE created_at >= $1 AND created_at < $2
	`, start, end).Scan(&out.TotalConversations); err != nil {
		return nil, fmt.Errorf("admin: count conversations: %w", err)
	}

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments WHERE appt_date = $1
	`, today).Scan(&out.AppointmentsBooked); err != nil {
		return nil, fmt.Errorf("admin: count appointments: %w", err)
	}

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT patient_id) FROM appointments
		WHERE patient_id IN (
			SELECT patient_id FROM appointments GROUP BY patient_id HAVING COUNT(*) > 1
		) AND appt_date = $1 AND status = 'confirmed'
	`, today).Scan(&out.ReturningPatients); err != nil {
		return nil, fmt.Errorf("admin: count returning patients: %w", err)
	}

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM feedback WHERE created_at >= $1 AND created_at < $2
	`, start, end).Scan(&out.ComplaintsFlagged); err != nil {
		return nil, fmt.Errorf("admin: count feedback: %w", err)
	}

	var hour int
	err := r.db.QueryRow(ctx, `
		SELECT EXTRACT(HOUR FROM created_at AT TIME ZONE $3)::int AS hour
		FROM conversation_messages
		WHERE role = 'user' AND created_at >= $1 AND created_at < $2
		GROUP BY hour
		ORDER BY COUNT(*) DESC, hour ASC
		LIMIT 1
	`, start, end, r.loc.String()).Scan(&hour)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		out.PeakInquiryTime = formatPeakHour(0, false)
	case err != nil:
		return nil, fmt.Errorf("admin: peak inquiry hour: %w", err)
	default:
		out.PeakInquiryTime = formatPeakHour(hour, true)
	}
	return out, nil
}
