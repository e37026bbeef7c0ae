package appointments

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

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithDB(db pgxQuerier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n := req.normalized()

	query := `
		INSERT INTO appointments (patient_id, appt_date, appt_time, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	appt := &Appointment{
		PatientID: n.PatientID,
		Date:      n.Date,
		Time:      n.Time,
		Reason:    n.Reason,
		Status:    n.Status,
	}
	if err := r.db.QueryRow(ctx, query, n.PatientID, n.Date, n.Time, n.Reason, n.Status).
		Scan(&appt.ID, &appt.CreatedAt); err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	return appt, nil
}

// FindRecentByPatient returns the patient's appointments, latest date first.
func (r *PostgresRepository) FindRecentByPatient(ctx context.Context, patientID int64, limit int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 3
	}
	query := `
		SELECT id, patient_id, appt_date, appt_time, reason, status, created_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY appt_date DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("appointments: select recent: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.Date, &a.Time, &a.Reason, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan recent: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByPatient returns how many appointments the patient has.
func (r *PostgresRepository) CountByPatient(ctx context.Context, patientID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("appointments: count by patient: %w", err)
	}
	return count, nil
}

// List returns appointments for a day ordered by time, or the latest ones.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Listing, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filter.Date != "" {
		rows, err = r.db.Query(ctx, `
			SELECT a.id, a.patient_id, a.appt_date, a.appt_time, a.reason, a.status, a.created_at,
			       COALESCE(p.name, ''), COALESCE(p.phone, '')
			FROM appointments a
			LEFT JOIN patients p ON a.patient_id = p.id
			WHERE a.appt_date = $1
			ORDER BY a.appt_time
		`, filter.Date)
	} else {
		rows, err = r.db.Query(ctx, `
			SELECT a.id, a.patient_id, a.appt_date, a.appt_time, a.reason, a.status, a.created_at,
			       COALESCE(p.name, ''), COALESCE(p.phone, '')
			FROM appointments a
			LEFT JOIN patients p ON a.patient_id = p.id
			ORDER BY a.appt_date DESC, a.appt_time DESC
			LIMIT $1
		`, filter.limit())
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	out := []Listing{}
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ID, &l.PatientID, &l.Date, &l.Time, &l.Reason, &l.Status, &l.CreatedAt, &l.Name, &l.Phone); err != nil {
			return nil, fmt.Errorf("appointments: scan listing: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
