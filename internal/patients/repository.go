package patients

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Repository defines the interface for patient storage
type Repository interface {
	FindByPhone(ctx context.Context, phone string) (*Patient, error)
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error)
}

// InMemoryRepository keeps patients in process memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*Patient
	byPhone map[string]int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID:  1,
		byID:    make(map[int64]*Patient),
		byPhone: make(map[string]int64),
	}
}

// FindByPhone returns the patient registered with the exact phone number.
func (r *InMemoryRepository) FindByPhone(ctx context.Context, phone string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[strings.TrimSpace(phone)]
	if !ok {
		return nil, ErrPatientNotFound
	}
	p := *r.byID[id]
	return &p, nil
}

// GetByID retrieves a patient by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	out := *p
	return &out, nil
}

// Create registers a patient. Phones are unique.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(req.Phone)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPhone[phone]; exists {
		return nil, ErrDuplicatePhone
	}

	firstVisit := req.FirstVisit
	if firstVisit == nil {
		now := time.Now().UTC()
		firstVisit = &now
	}
	p := &Patient{
		ID:         r.nextID,
		Name:       strings.TrimSpace(req.Name),
		Phone:      phone,
		FirstVisit: firstVisit,
	}
	r.nextID++
	r.byID[p.ID] = p
	r.byPhone[phone] = p.ID

	out := *p
	return &out, nil
}

// Count returns the number of stored patients.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
