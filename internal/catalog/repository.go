package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository provides access to the service catalog.
type Repository interface {
	Create(ctx context.Context, req *CreateServiceRequest) (*Service, error)
	Get(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context) ([]Service, error)
}

// InMemoryRepository is a map-backed repository for tests and local runs.
type InMemoryRepository struct {
	mu       sync.RWMutex
	services map[string]Service
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{services: make(map[string]Service)}
}

// Create registers a service.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s := Service{
		ID:              uuid.NewString(),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		PriceCLP:        req.PriceCLP,
		Active:          true,
		CreatedAt:       time.Now().UTC(),
	}
	r.mu.Lock()
	r.services[s.ID] = s
	r.mu.Unlock()
	return &s, nil
}

// Get returns one service by id.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// List returns active services sorted by name.
func (r *InMemoryRepository) List(ctx context.Context) ([]Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []Service
	for _, s := range r.services {
		if s.Active {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
