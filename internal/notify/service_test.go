package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetlink-cl/agenda-platform/internal/appointments"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

type capturingSender struct {
	sent []EmailMessage
	err  error
}

func (c *capturingSender) Send(ctx context.Context, msg EmailMessage) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func confirmedAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:          "cita-1",
		Fecha:       "2026-09-01",
		HoraInicio:  "09:00",
		HoraFin:     "09:30",
		PatientName: "Luna",
		OwnerName:   "María Soto",
		OwnerEmail:  "maria@example.cl",
		ServiceName: "Consulta general",
		VetName:     "Dr. Ramírez",
	}
}

func TestBookingConfirmedSendsEmail(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(sender, "Clínica VetLink", logging.Default())

	svc.BookingConfirmed(context.Background(), confirmedAppointment())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "maria@example.cl", msg.To)
	assert.Equal(t, "María Soto", msg.ToName)
	assert.Contains(t, msg.Subject, "Luna")
	assert.Contains(t, msg.Body, "2026-09-01")
	assert.Contains(t, msg.Body, "09:00 a 09:30")
	assert.Contains(t, msg.Body, "Dr. Ramírez")
}

func TestBookingConfirmedSkipsWithoutEmail(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(sender, "", logging.Default())

	appt := confirmedAppointment()
	appt.OwnerEmail = ""
	svc.BookingConfirmed(context.Background(), appt)

	assert.Empty(t, sender.sent)
}

func TestBookingConfirmedSwallowsSendFailure(t *testing.T) {
	sender := &capturingSender{err: errors.New("smtp down")}
	svc := NewService(sender, "", logging.Default())

	assert.NotPanics(t, func() {
		svc.BookingConfirmed(context.Background(), confirmedAppointment())
	})
}

func TestBookingConfirmedNilSender(t *testing.T) {
	svc := NewService(nil, "", logging.Default())
	assert.NotPanics(t, func() {
		svc.BookingConfirmed(context.Background(), confirmedAppointment())
	})
}
