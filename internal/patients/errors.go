package patients

import "errors"

var (
	// ErrInvalidName is returned when the patient name is missing.
	ErrInvalidName = errors.New("nombre is required")

	// ErrMissingOwner is returned when no owner name is given.
	ErrMissingOwner = errors.New("propietario_nombre is required")

	// ErrMissingContact is returned when both owner phone and email are missing.
	ErrMissingContact = errors.New("either propietario_telefono or propietario_email is required")

	// ErrNotFound is returned when a patient does not exist.
	ErrNotFound = errors.New("patient not found")
)
