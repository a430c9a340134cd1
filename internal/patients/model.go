// Package patients holds the clinic's patient registry: the animal plus its
// owner's contact information, the projection the agenda renders on occupied
// blocks.
package patients

import (
	"strings"
	"time"
)

// Patient is one animal under the clinic's care.
type Patient struct {
	ID         string    `json:"id"`
	Name       string    `json:"nombre"`
	Species    string    `json:"especie"`
	Breed      string    `json:"raza,omitempty"`
	OwnerName  string    `json:"propietario_nombre"`
	OwnerPhone string    `json:"propietario_telefono,omitempty"`
	OwnerEmail string    `json:"propietario_email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreatePatientRequest is the request body for registering a patient.
type CreatePatientRequest struct {
	Name       string `json:"nombre"`
	Species    string `json:"especie"`
	Breed      string `json:"raza"`
	OwnerName  string `json:"propietario_nombre"`
	OwnerPhone string `json:"propietario_telefono"`
	OwnerEmail string `json:"propietario_email"`
}

// Validate validates the create patient request.
func (r *CreatePatientRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.OwnerName) == "" {
		return ErrMissingOwner
	}
	if r.OwnerPhone == "" && r.OwnerEmail == "" {
		return ErrMissingContact
	}
	return nil
}
