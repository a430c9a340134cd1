package staff

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCreateVeterinarian(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO veterinarians").
		WithArgs(pgxmock.AnyArg(), "Dr. Ramírez", "ramirez@vetlink.cl", "Medicina general").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	repo := NewPostgresRepository(mock)
	vet, err := repo.Create(context.Background(), &CreateVeterinarianRequest{
		Name:      "Dr. Ramírez",
		Email:     "ramirez@vetlink.cl",
		Specialty: "Medicina general",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, vet.ID)
	assert.True(t, vet.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetVeterinarianNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, nombre, email, especialidad, activo, created_at").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "nombre", "email", "especialidad", "activo", "created_at"}))

	repo := NewPostgresRepository(mock)
	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetWeeklyHours(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM vet_working_hours").
		WithArgs("vet-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("INSERT INTO vet_working_hours").
		WithArgs("vet-1", 2, 36, 64).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepository(mock)
	err = repo.SetWeeklyHours(context.Background(), "vet-1", WeeklyHours{
		time.Tuesday: {{StartBlock: 36, EndBlock: 64}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetWeeklyHoursRejectsInvertedRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	err = repo.SetWeeklyHours(context.Background(), "vet-1", WeeklyHours{
		time.Monday: {{StartBlock: 64, EndBlock: 36}},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPostgresRangesOn(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// 2026-09-01 is a Tuesday.
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT start_block, end_block").
		WithArgs("vet-1", 2).
		WillReturnRows(pgxmock.NewRows([]string{"start_block", "end_block"}).
			AddRow(36, 52).
			AddRow(56, 72))

	repo := NewPostgresRepository(mock)
	ranges, err := repo.RangesOn(context.Background(), "vet-1", date)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, BlockRange{StartBlock: 36, EndBlock: 52}, ranges[0])
	assert.Equal(t, BlockRange{StartBlock: 56, EndBlock: 72}, ranges[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}
