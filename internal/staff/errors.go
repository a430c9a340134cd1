package staff

import "errors"

var (
	// ErrInvalidName is returned when the veterinarian name is missing.
	ErrInvalidName = errors.New("nombre is required")

	// ErrNotFound is returned when a veterinarian does not exist.
	ErrNotFound = errors.New("veterinarian not found")

	// ErrInvalidRange is returned for working ranges outside [0, 96) or with
	// a non-positive length.
	ErrInvalidRange = errors.New("invalid working range")
)
