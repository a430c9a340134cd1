// Package staff holds the veterinarian directory and their weekly working
// hours, expressed in 15-minute block indices.
package staff

import (
	"strings"
	"time"
)

// Veterinarian is a staff member who can be booked on the agenda.
type Veterinarian struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email,omitempty"`
	Specialty string    `json:"especialidad,omitempty"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockRange is an on-duty span in block indices; EndBlock is exclusive.
type BlockRange struct {
	StartBlock int `json:"start_block"`
	EndBlock   int `json:"end_block"`
}

// WeeklyHours maps a weekday to its on-duty ranges. Weekdays follow
// time.Weekday numbering (Sunday = 0).
type WeeklyHours map[time.Weekday][]BlockRange

// CreateVeterinarianRequest is the admin request to register a veterinarian.
type CreateVeterinarianRequest struct {
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Specialty string `json:"especialidad"`
}

// Validate checks the request fields.
func (r *CreateVeterinarianRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	return nil
}
