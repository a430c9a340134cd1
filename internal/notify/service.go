package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/vetlink-cl/agenda-platform/internal/appointments"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// Service sends appointment notifications to pet owners. Every method is
// best-effort: a failed or skipped notification is logged and never
// propagates to the booking flow.
type Service struct {
	email      EmailSender
	clinicName string
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, clinicName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if clinicName == "" {
		clinicName = "VetLink"
	}
	return &Service{email: email, clinicName: clinicName, logger: logger.WithComponent("notify")}
}

// BookingConfirmed emails the owner after a booking is confirmed. Owners
// without an email address are skipped.
func (s *Service) BookingConfirmed(ctx context.Context, appt *appointments.Appointment) {
	if s.email == nil || appt == nil {
		return
	}
	if appt.OwnerEmail == "" {
		s.logger.Debug("owner has no email, skipping confirmation", "cita_id", appt.ID)
		return
	}

	msg := EmailMessage{
		To:      appt.OwnerEmail,
		ToName:  appt.OwnerName,
		Subject: fmt.Sprintf("%s: cita confirmada para %s", s.clinicName, appt.PatientName),
		Body:    s.confirmationBody(appt),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("booking confirmation email failed", "cita_id", appt.ID, "error", err)
		return
	}
	s.logger.Info("booking confirmation sent", "cita_id", appt.ID, "to", appt.OwnerEmail)
}

func (s *Service) confirmationBody(appt *appointments.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", appt.OwnerName)
	fmt.Fprintf(&b, "Tu hora para %s ha sido confirmada.\n\n", appt.PatientName)
	fmt.Fprintf(&b, "Fecha: %s\n", appt.Fecha)
	fmt.Fprintf(&b, "Hora: %s a %s\n", appt.HoraInicio, appt.HoraFin)
	if appt.ServiceName != "" {
		fmt.Fprintf(&b, "Servicio: %s\n", appt.ServiceName)
	}
	if appt.VetName != "" {
		fmt.Fprintf(&b, "Veterinario: %s\n", appt.VetName)
	}
	fmt.Fprintf(&b, "\nSi no puedes asistir, por favor avísanos con anticipación.\n\n%s", s.clinicName)
	return b.String()
}
