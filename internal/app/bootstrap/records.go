package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wolfman30/clinicdesk-ai/internal/admin"
	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
	"github.com/wolfman30/clinicdesk-ai/internal/patients"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// Records groups the record stores behind the engine and the REST views.
type Records struct {
	Patients     patients.Repository
	Appointments appointments.Repository
	Feedback     feedback.Repository
	Log          conversation.ConversationLog
	Reporter     admin.Reporter
	// Persistent is true when the stores are Postgres-backed.
	Persistent bool

	close func()
}

// Close releases database handles.
func (r *Records) Close() {
	if r != nil && r.close != nil {
		r.close()
	}
}

// MemoryRecords builds process-local stores.
func MemoryRecords(loc *time.Location) *Records {
	p := patients.NewInMemoryRepository()
	a := appointments.NewInMemoryRepository(p)
	f := feedback.NewInMemoryRepository(p)
	log := conversation.NewMemoryLog()
	return &Records{
		Patients:     p,
		Appointments: a,
		Feedback:     f,
		Log:          log,
		Reporter:     admin.NewMemoryReporter(log, a, f, loc),
		close:        func() {},
	}
}

// BuildRecords connects to Postgres when databaseURL is set and falls back
// to in-memory stores otherwise.
func BuildRecords(ctx context.Context, databaseURL string, loc *time.Location, logger *logging.Logger) (*Records, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if databaseURL == "" {
		logger.Warn("DATABASE_URL not set; records are kept in memory")
		return MemoryRecords(loc), nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: open sql db: %w", err)
	}

	logger.Info("using postgres record stores")
	return &Records{
		Patients:     patients.NewPostgresRepository(pool),
		Appointments: appointments.NewPostgresRepository(pool),
		Feedback:     feedback.NewPostgresRepository(pool),
		Log:          conversation.NewPostgresLog(sqlDB),
		Reporter:     admin.NewPostgresReporter(pool, loc),
		Persistent:   true,
		close: func() {
			_ = sqlDB.Close()
			pool.Close()
		},
	}, nil
}
