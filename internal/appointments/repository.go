package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wolfman30/clinicdesk-ai/internal/patients"
)

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)
	FindRecentByPatient(ctx context.Context, patientID int64, limit int) ([]Appointment, error)
	CountByPatient(ctx context.Context, patientID int64) (int, error)
	List(ctx context.Context, filter ListFilter) ([]Listing, error)
}

// PatientLookup resolves patient details for listings.
type PatientLookup interface {
	GetByID(ctx context.Context, id int64) (*patients.Patient, error)
}

// InMemoryRepository keeps appointments in process memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	rows     []Appointment
	patients PatientLookup
}

// NewInMemoryRepository creates a new in-memory repository. patients may be
// nil, in which case listings carry empty names.
func NewInMemoryRepository(patients PatientLookup) *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, patients: patients}
}

// Create stores an appointment.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n := req.normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	appt := Appointment{
		ID:        r.nextID,
		PatientID: n.PatientID,
		Date:      n.Date,
		Time:      n.Time,
		Reason:    n.Reason,
		Status:    n.Status,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.rows = append(r.rows, appt)
	return &appt, nil
}

// FindRecentByPatient returns the patient's appointments, latest date first.
func (r *InMemoryRepository) FindRecentByPatient(ctx context.Context, patientID int64, limit int) ([]Appointment, error) {
	r.mu.RLock()
	var out []Appointment
	for _, a := range r.rows {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByPatient returns how many appointments the patient has.
func (r *InMemoryRepository) CountByPatient(ctx context.Context, patientID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, a := range r.rows {
		if a.PatientID == patientID {
			count++
		}
	}
	return count, nil
}

// List returns appointments for a day ordered by time, or the latest ones.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]Listing, error) {
	rows := r.All()
	if filter.Date != "" {
		filtered := rows[:0]
		for _, a := range rows {
			if a.Date == filter.Date {
				filtered = append(filtered, a)
			}
		}
		rows = filtered
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time < rows[j].Time })
	} else {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Date != rows[j].Date {
				return rows[i].Date > rows[j].Date
			}
			return rows[i].Time > rows[j].Time
		})
		if len(rows) > filter.limit() {
			rows = rows[:filter.limit()]
		}
	}

	out := make([]Listing, 0, len(rows))
	for _, a := range rows {
		l := Listing{Appointment: a}
		if r.patients != nil {
			if p, err := r.patients.GetByID(ctx, a.PatientID); err == nil {
				l.Name = p.Name
				l.Phone = p.Phone
			}
		}
		out = append(out, l)
	}
	return out, nil
}

// All returns a copy of every stored appointment.
func (r *InMemoryRepository) All() []Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Appointment, len(r.rows))
	copy(out, r.rows)
	return out
}
