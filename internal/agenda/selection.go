package agenda

import (
	"time"

	"github.com/google/uuid"
)

// SpanAvailable reports whether every block in [start, start+required) exists
// and is available. Spans that run past the end of the day, cross a working
// range boundary or touch any occupied or unavailable block fail.
func SpanAvailable(blocks []Block, start, required int) bool {
	if required <= 0 || start < 0 {
		return false
	}
	for i := start; i < start+required; i++ {
		if i >= len(blocks) {
			return false
		}
		if blocks[i].Status != StatusAvailable {
			return false
		}
	}
	return true
}

// PreviewRange returns the block indices to highlight for a hover preview:
// the full span when it is bookable, nothing at all otherwise. Preview never
// mutates committed state.
func PreviewRange(blocks []Block, start, required int) []int {
	if !SpanAvailable(blocks, start, required) {
		return nil
	}
	indices := make([]int, required)
	for i := range indices {
		indices[i] = start + i
	}
	return indices
}

// SelectionParams carries the user's staged choices at click time.
type SelectionParams struct {
	PatientID      string
	ServiceID      string
	RequiredBlocks int
}

// ConfirmationDraft is a staged, unsent booking awaiting explicit user
// confirmation. It lives in the draft store with a TTL; nothing is booked
// until Confirm runs.
type ConfirmationDraft struct {
	ID             string    `json:"id"`
	VetID          string    `json:"veterinario_id"`
	VetName        string    `json:"veterinario"`
	Date           string    `json:"fecha"`
	PatientID      string    `json:"paciente_id"`
	ServiceID      string    `json:"servicio_id"`
	StartBlock     int       `json:"bloque_inicio"`
	RequiredBlocks int       `json:"bloques_requeridos"`
	HoraInicio     string    `json:"hora_inicio"`
	HoraFin        string    `json:"hora_fin"`
	CreatedAt      time.Time `json:"created_at"`
}

// SelectRange validates a click on a starting block and stages a confirmation
// draft. It re-runs the same contiguous-availability predicate as the hover
// preview, guarding against stale hover state, and rejects when a service or
// patient has not yet been chosen.
func SelectRange(sched DaySchedule, start int, p SelectionParams) (*ConfirmationDraft, error) {
	if p.ServiceID == "" || p.RequiredBlocks <= 0 {
		return nil, ErrServiceNotChosen
	}
	if p.PatientID == "" {
		return nil, ErrPatientNotChosen
	}
	if !SpanAvailable(sched.Blocks, start, p.RequiredBlocks) {
		return nil, ErrSpanUnavailable
	}

	return &ConfirmationDraft{
		ID:             uuid.NewString(),
		VetID:          sched.VetID,
		VetName:        sched.VetName,
		Date:           sched.Date.Format("2006-01-02"),
		PatientID:      p.PatientID,
		ServiceID:      p.ServiceID,
		StartBlock:     start,
		RequiredBlocks: p.RequiredBlocks,
		HoraInicio:     TimeForBlock(start),
		HoraFin:        TimeForBlock(start + p.RequiredBlocks),
		CreatedAt:      time.Now().UTC(),
	}, nil
}
