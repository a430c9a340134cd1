package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository provides persistence for appointments. CreateValidated must
// reject spans overlapping an existing non-cancelled appointment for the
// same veterinarian and date, atomically with the insert.
type Repository interface {
	CreateValidated(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	ListForVetDate(ctx context.Context, vetID string, date time.Time) ([]Appointment, error)
	UpdateEstado(ctx context.Context, id string, from, to Estado) error
}

// InMemoryRepository is a map-backed repository for tests and local runs.
type InMemoryRepository struct {
	mu    sync.Mutex
	rows  map[string]Appointment
	byDay map[string][]string // vetID|fecha -> appointment ids
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		rows:  make(map[string]Appointment),
		byDay: make(map[string][]string),
	}
}

func dayKey(vetID string, date time.Time) string {
	return vetID + "|" + date.Format("2006-01-02")
}

// CreateValidated inserts an appointment after checking the span is free.
func (r *InMemoryRepository) CreateValidated(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(req.VetID, req.Date)
	for _, id := range r.byDay[key] {
		existing := r.rows[id]
		if existing.Estado == EstadoCancelada {
			continue
		}
		if Overlaps(req.StartBlock, req.EndBlock, existing.StartBlock, existing.EndBlock) {
			return nil, ErrBlocksTaken
		}
	}

	appt := Appointment{
		ID:         uuid.NewString(),
		PatientID:  req.PatientID,
		VetID:      req.VetID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Fecha:      req.Date.Format("2006-01-02"),
		StartBlock: req.StartBlock,
		EndBlock:   req.EndBlock,
		HoraInicio: blockTime(req.StartBlock),
		HoraFin:    blockTime(req.EndBlock),
		Motivo:     req.Motivo,
		Notas:      req.Notas,
		Tipo:       req.Tipo,
		Estado:     req.Estado,
		CreatedAt:  time.Now().UTC(),
	}
	r.rows[appt.ID] = appt
	r.byDay[key] = append(r.byDay[key], appt.ID)
	return &appt, nil
}

// Get returns one appointment by id.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &appt, nil
}

// ListForVetDate returns the appointments of one veterinarian on one date,
// ordered by start block. Cancelled appointments are excluded.
func (r *InMemoryRepository) ListForVetDate(ctx context.Context, vetID string, date time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []Appointment
	for _, id := range r.byDay[dayKey(vetID, date)] {
		appt := r.rows[id]
		if appt.Estado != EstadoCancelada {
			list = append(list, appt)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartBlock < list[j].StartBlock })
	return list, nil
}

// UpdateEstado applies a state transition, enforcing the state machine.
func (r *InMemoryRepository) UpdateEstado(ctx context.Context, id string, from, to Estado) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	if appt.Estado != from {
		return ErrInvalidTransition
	}
	appt.Estado = to
	r.rows[id] = appt
	return nil
}
