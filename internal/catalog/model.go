// Package catalog holds the clinic's bookable services. A service's duration
// determines how many contiguous 15-minute blocks a booking needs.
package catalog

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidName is returned when the service name is missing.
	ErrInvalidName = errors.New("nombre is required")

	// ErrInvalidDuration is returned for non-positive durations.
	ErrInvalidDuration = errors.New("duracion_minutos must be positive")

	// ErrNotFound is returned when a service does not exist.
	ErrNotFound = errors.New("service not found")
)

// Service is one bookable clinic service.
type Service struct {
	ID              string    `json:"id"`
	Name            string    `json:"nombre"`
	DurationMinutes int       `json:"duracion_minutos"`
	PriceCLP        int       `json:"precio_clp,omitempty"`
	Active          bool      `json:"activo"`
	CreatedAt       time.Time `json:"created_at"`
}

// RequiredBlocks is the number of contiguous 15-minute blocks the service
// occupies: ceil(duration/15).
func (s *Service) RequiredBlocks() int {
	if s.DurationMinutes <= 0 {
		return 0
	}
	return (s.DurationMinutes + 14) / 15
}

// CreateServiceRequest is the admin request to register a service.
type CreateServiceRequest struct {
	Name            string `json:"nombre"`
	DurationMinutes int    `json:"duracion_minutos"`
	PriceCLP        int    `json:"precio_clp"`
}

// Validate checks the request fields.
func (r *CreateServiceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
