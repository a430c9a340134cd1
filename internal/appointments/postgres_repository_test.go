package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingRequest() *CreateAppointmentRequest {
	return &CreateAppointmentRequest{
		PatientID:  "11111111-1111-1111-1111-111111111111",
		VetID:      "22222222-2222-2222-2222-222222222222",
		ServiceID:  "33333333-3333-3333-3333-333333333333",
		Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartBlock: 36,
		EndBlock:   40,
		Motivo:     "control anual",
	}
}

func TestPostgresCreateValidatedInserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	req := newBookingRequest()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT bloque_inicio, bloque_fin").
		WithArgs(req.VetID, "2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"bloque_inicio", "bloque_fin"}).
			AddRow(32, 34))
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), req.PatientID, req.VetID, req.ServiceID,
			"2026-09-01", 36, 40, req.Motivo, "", "consulta", "pendiente").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	repo := NewPostgresRepository(mock)
	appt, err := repo.CreateValidated(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, EstadoPendiente, appt.Estado)
	assert.Equal(t, "09:00", appt.HoraInicio)
	assert.Equal(t, "10:00", appt.HoraFin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateValidatedLosesRace(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	req := newBookingRequest()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT bloque_inicio, bloque_fin").
		WithArgs(req.VetID, "2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"bloque_inicio", "bloque_fin"}).
			AddRow(38, 42))
	mock.ExpectRollback()

	repo := NewPostgresRepository(mock)
	_, err = repo.CreateValidated(context.Background(), req)
	assert.ErrorIs(t, err, ErrBlocksTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateEstadoStaleFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE appointments").
		WithArgs("en_curso", "cita-1", "pendiente").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgresRepository(mock)
	err = repo.UpdateEstado(context.Background(), "cita-1", EstadoPendiente, EstadoEnCurso)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateEstadoIllegalJump(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	err = repo.UpdateEstado(context.Background(), "cita-1", EstadoCompletada, EstadoEnCurso)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNewPostgresRepositoryRequiresPool(t *testing.T) {
	assert.Panics(t, func() { NewPostgresRepository(nil) })
}
