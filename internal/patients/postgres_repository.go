package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	db rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithDB(db rowQuerier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByPhone matches the phone exactly.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (*Patient, error) {
	query := `
		SELECT id, name, phone, first_visit
		FROM patients
		WHERE phone = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, strings.TrimSpace(phone)))
}

// GetByID fetches a patient by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	query := `
		SELECT id, name, phone, first_visit
		FROM patients
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	firstVisit := req.FirstVisit
	if firstVisit == nil {
		now := time.Now().UTC()
		firstVisit = &now
	}

	query := `
		INSERT INTO patients (name, phone, first_visit)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	p := &Patient{
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		FirstVisit: firstVisit,
	}
	if err := r.db.QueryRow(ctx, query, p.Name, p.Phone, *firstVisit).Scan(&p.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("patients: insert failed: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Patient, error) {
	var p Patient
	var firstVisit *time.Time
	if err := row.Scan(&p.ID, &p.Name, &p.Phone, &firstVisit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	p.FirstVisit = firstVisit
	return &p, nil
}
