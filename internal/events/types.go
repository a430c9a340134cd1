package events

import "time"

type AppointmentBookedV1 struct {
	EventID        string    `json:"event_id"`
	CitaID         string    `json:"cita_id"`
	PacienteID     string    `json:"paciente_id"`
	VeterinarioID  string    `json:"veterinario_id"`
	ServicioID     string    `json:"servicio_id"`
	Fecha          string    `json:"fecha"`
	BloqueInicio   int       `json:"bloque_inicio"`
	BloqueFin      int       `json:"bloque_fin"`
	HoraInicio     string    `json:"hora_inicio"`
	HoraFin        string    `json:"hora_fin"`
	Motivo         string    `json:"motivo"`
	BookedAt       time.Time `json:"booked_at"`
	PropietarioTel string    `json:"propietario_telefono,omitempty"`
}

type AppointmentStartedV1 struct {
	EventID   string    `json:"event_id"`
	CitaID    string    `json:"cita_id"`
	StartedAt time.Time `json:"started_at"`
	Actor     string    `json:"actor,omitempty"`
}

type AppointmentCompletedV1 struct {
	EventID     string    `json:"event_id"`
	CitaID      string    `json:"cita_id"`
	CompletedAt time.Time `json:"completed_at"`
	Actor       string    `json:"actor,omitempty"`
}

type AppointmentCancelledV1 struct {
	EventID     string    `json:"event_id"`
	CitaID      string    `json:"cita_id"`
	CancelledAt time.Time `json:"cancelled_at"`
	Actor       string    `json:"actor,omitempty"`
}
