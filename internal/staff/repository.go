package staff

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository provides access to the veterinarian directory.
type Repository interface {
	Create(ctx context.Context, req *CreateVeterinarianRequest) (*Veterinarian, error)
	List(ctx context.Context) ([]Veterinarian, error)
	Get(ctx context.Context, id string) (*Veterinarian, error)
	SetWeeklyHours(ctx context.Context, vetID string, hours WeeklyHours) error
	RangesOn(ctx context.Context, vetID string, date time.Time) ([]BlockRange, error)
}

// InMemoryRepository is a map-backed repository for tests and local runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	vets  map[string]Veterinarian
	hours map[string]WeeklyHours
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		vets:  make(map[string]Veterinarian),
		hours: make(map[string]WeeklyHours),
	}
}

// Create registers a veterinarian.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateVeterinarianRequest) (*Veterinarian, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	vet := Veterinarian{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Specialty: req.Specialty,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.vets[vet.ID] = vet
	r.mu.Unlock()
	return &vet, nil
}

// List returns active veterinarians sorted by name.
func (r *InMemoryRepository) List(ctx context.Context) ([]Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var vets []Veterinarian
	for _, v := range r.vets {
		if v.Active {
			vets = append(vets, v)
		}
	}
	sort.Slice(vets, func(i, j int) bool { return vets[i].Name < vets[j].Name })
	return vets, nil
}

// Get returns one veterinarian by id.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vet, ok := r.vets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &vet, nil
}

// SetWeeklyHours replaces a veterinarian's weekly working hours.
func (r *InMemoryRepository) SetWeeklyHours(ctx context.Context, vetID string, hours WeeklyHours) error {
	for _, ranges := range hours {
		for _, br := range ranges {
			if br.StartBlock < 0 || br.EndBlock > 96 || br.StartBlock >= br.EndBlock {
				return ErrInvalidRange
			}
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vets[vetID]; !ok {
		return ErrNotFound
	}
	r.hours[vetID] = hours
	return nil
}

// RangesOn returns the working ranges for the weekday of the given date.
func (r *InMemoryRepository) RangesOn(ctx context.Context, vetID string, date time.Time) ([]BlockRange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.vets[vetID]; !ok {
		return nil, ErrNotFound
	}
	hours, ok := r.hours[vetID]
	if !ok {
		return nil, nil
	}
	ranges := hours[date.Weekday()]
	out := make([]BlockRange, len(ranges))
	copy(out, ranges)
	return out, nil
}
