package appointments

import "errors"

var (
	// ErrMissingReference is returned when a patient, vet or service id is missing.
	ErrMissingReference = errors.New("paciente_id, veterinario_id and servicio_id are required")

	// ErrMissingMotivo is returned when the mandatory reason text is missing.
	ErrMissingMotivo = errors.New("motivo is required")

	// ErrInvalidSpan is returned for block spans outside [0, 96) or empty ones.
	ErrInvalidSpan = errors.New("invalid block span")

	// ErrBlocksTaken is returned when the requested span overlaps an existing
	// appointment; the losing side of a booking race sees this.
	ErrBlocksTaken = errors.New("los bloques seleccionados ya no están disponibles")

	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned for illegal estado changes.
	ErrInvalidTransition = errors.New("invalid estado transition")
)
