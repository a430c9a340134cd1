package agenda

import "errors"

var (
	// ErrServiceNotChosen is returned when a selection is made before a
	// service has been picked.
	ErrServiceNotChosen = errors.New("debe seleccionar un servicio antes de agendar")

	// ErrPatientNotChosen is returned when a selection is made before a
	// patient has been picked.
	ErrPatientNotChosen = errors.New("debe seleccionar un paciente antes de agendar")

	// ErrSpanUnavailable is returned when any block in the requested span is
	// not available, including spans that run past the end of the day.
	ErrSpanUnavailable = errors.New("no hay suficientes bloques contiguos disponibles")

	// ErrMissingMotivo is returned when a confirmation lacks the mandatory
	// reason text.
	ErrMissingMotivo = errors.New("el motivo de la consulta es obligatorio")

	// ErrDateNotSelectable is returned for past dates and irrenunciable
	// holidays.
	ErrDateNotSelectable = errors.New("la fecha seleccionada no admite agendamiento")

	// ErrDraftNotFound is returned when a confirmation draft has expired or
	// never existed.
	ErrDraftNotFound = errors.New("selección no encontrada o expirada")
)
