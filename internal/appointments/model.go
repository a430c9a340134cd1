// Package appointments owns the appointment lifecycle: creation from a
// confirmed agenda selection, the estado state machine, and the audit trail
// of transitions.
package appointments

import (
	"strings"
	"time"
)

// Estado is the lifecycle state of an appointment.
type Estado string

const (
	EstadoPendiente  Estado = "pendiente"
	EstadoEnCurso    Estado = "en_curso"
	EstadoCompletada Estado = "completada"
	EstadoCancelada  Estado = "cancelada"
)

// CanTransition reports whether from→to is a legal estado transition.
func CanTransition(from, to Estado) bool {
	switch from {
	case EstadoPendiente:
		return to == EstadoEnCurso || to == EstadoCancelada
	case EstadoEnCurso:
		return to == EstadoCompletada
	default:
		return false
	}
}

// Appointment is one booked consultation. Display fields come joined from
// the patient registry and the service catalog; the agenda renders them on
// occupied blocks.
type Appointment struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"paciente_id"`
	VetID      string    `json:"veterinario_id"`
	ServiceID  string    `json:"servicio_id"`
	Date       time.Time `json:"-"`
	Fecha      string    `json:"fecha"`
	StartBlock int       `json:"bloque_inicio"`
	EndBlock   int       `json:"bloque_fin"`
	HoraInicio string    `json:"hora_inicio"`
	HoraFin    string    `json:"hora_fin"`
	Motivo     string    `json:"motivo"`
	Notas      string    `json:"notas,omitempty"`
	Tipo       string    `json:"tipo"`
	Estado     Estado    `json:"estado"`
	CreatedAt  time.Time `json:"created_at"`

	PatientName string `json:"paciente_nombre,omitempty"`
	OwnerName   string `json:"propietario_nombre,omitempty"`
	OwnerPhone  string `json:"propietario_telefono,omitempty"`
	OwnerEmail  string `json:"propietario_email,omitempty"`
	ServiceName string `json:"servicio_nombre,omitempty"`
	VetName     string `json:"veterinario,omitempty"`
}

// CreateAppointmentRequest carries a validated booking into the repository.
// EndBlock is exclusive.
type CreateAppointmentRequest struct {
	PatientID  string
	VetID      string
	ServiceID  string
	Date       time.Time
	StartBlock int
	EndBlock   int
	Motivo     string
	Notas      string
	Tipo       string
	Estado     Estado
}

// Validate checks the request invariants. Tipo and Estado default to the
// booking-flow fixed values when empty.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" || strings.TrimSpace(r.VetID) == "" || strings.TrimSpace(r.ServiceID) == "" {
		return ErrMissingReference
	}
	if strings.TrimSpace(r.Motivo) == "" {
		return ErrMissingMotivo
	}
	if r.StartBlock < 0 || r.EndBlock > 96 || r.StartBlock >= r.EndBlock {
		return ErrInvalidSpan
	}
	if r.Tipo == "" {
		r.Tipo = "consulta"
	}
	if r.Estado == "" {
		r.Estado = EstadoPendiente
	}
	return nil
}

// Overlaps reports whether two block spans intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
