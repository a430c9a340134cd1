package patients

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository provides access to the patient registry.
type Repository interface {
	Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error)
	Get(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context) ([]Patient, error)
}

// InMemoryRepository is a map-backed repository for tests and local runs.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]Patient
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[string]Patient)}
}

// Create registers a patient.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p := Patient{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Species:    req.Species,
		Breed:      req.Breed,
		OwnerName:  req.OwnerName,
		OwnerPhone: req.OwnerPhone,
		OwnerEmail: req.OwnerEmail,
		CreatedAt:  time.Now().UTC(),
	}
	r.mu.Lock()
	r.patients[p.ID] = p
	r.mu.Unlock()
	return &p, nil
}

// Get returns one patient by id.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// List returns every patient sorted by name.
func (r *InMemoryRepository) List(ctx context.Context) ([]Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []Patient
	for _, p := range r.patients {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
