package feedback

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wolfman30/clinicdesk-ai/internal/patients"
)

// DefaultListLimit caps admin feedback listings.
const DefaultListLimit = 50

// Repository defines the interface for feedback storage
type Repository interface {
	Create(ctx context.Context, req *CreateFeedbackRequest) (*Feedback, error)
	ListRecent(ctx context.Context, limit int) ([]Listing, error)
}

// PatientLookup resolves patient details for listings.
type PatientLookup interface {
	GetByID(ctx context.Context, id int64) (*patients.Patient, error)
}

// InMemoryRepository keeps feedback in process memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	rows     []Feedback
	patients PatientLookup
	now      func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository(patients PatientLookup) *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, patients: patients, now: time.Now}
}

// Create stores a feedback row.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateFeedbackRequest) (*Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	fb := Feedback{
		ID:        r.nextID,
		PatientID: req.PatientID,
		SessionID: req.SessionID,
		Sentiment: req.Sentiment,
		Message:   req.Message,
		Urgent:    req.Urgent,
		CreatedAt: r.now().UTC(),
	}
	r.nextID++
	r.rows = append(r.rows, fb)
	return &fb, nil
}

// ListRecent returns the newest feedback first.
func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int) ([]Listing, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows := r.All()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]Listing, 0, len(rows))
	for _, fb := range rows {
		l := Listing{Feedback: fb}
		if r.patients != nil && fb.PatientID != nil {
			if p, err := r.patients.GetByID(ctx, *fb.PatientID); err == nil {
				l.Name = p.Name
				l.Phone = p.Phone
			}
		}
		out = append(out, l)
	}
	return out, nil
}

// All returns a copy of every stored row in insertion order.
func (r *InMemoryRepository) All() []Feedback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Feedback, len(r.rows))
	copy(out, r.rows)
	return out
}
