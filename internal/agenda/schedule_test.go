package agenda

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetlink-cl/agenda-platform/internal/appointments"
	"github.com/vetlink-cl/agenda-platform/internal/holidays"
	"github.com/vetlink-cl/agenda-platform/internal/staff"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

func seedVet(t *testing.T, repo *staff.InMemoryRepository) *staff.Veterinarian {
	t.Helper()
	vet, err := repo.Create(context.Background(), &staff.CreateVeterinarianRequest{Name: "Dr. Ramírez"})
	require.NoError(t, err)
	hours := staff.WeeklyHours{}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		hours[wd] = []staff.BlockRange{{StartBlock: 36, EndBlock: 64}}
	}
	require.NoError(t, repo.SetWeeklyHours(context.Background(), vet.ID, hours))
	return vet
}

func TestDayScheduleComposesWorkingDay(t *testing.T) {
	staffRepo := staff.NewInMemoryRepository()
	apptRepo := appointments.NewInMemoryRepository()
	vet := seedVet(t, staffRepo)

	// 2026-09-01 is a Tuesday.
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := apptRepo.CreateValidated(context.Background(), &appointments.CreateAppointmentRequest{
		PatientID: "pac-1", VetID: vet.ID, ServiceID: "svc-1",
		Date: date, StartBlock: 40, EndBlock: 42, Motivo: "control",
	})
	require.NoError(t, err)

	svc := NewScheduleService(staffRepo, apptRepo, nil, nil, 0, logging.Default())
	sched, err := svc.DaySchedule(context.Background(), vet.ID, date)
	require.NoError(t, err)

	assert.True(t, sched.Works)
	assert.Equal(t, "Dr. Ramírez", sched.VetName)
	assert.Equal(t, StatusOccupied, sched.Blocks[40].Status)
	assert.Equal(t, StatusAvailable, sched.Blocks[42].Status)
	assert.Equal(t, StatusUnavailable, sched.Blocks[30].Status)
}

func TestDayScheduleWeekendOff(t *testing.T) {
	staffRepo := staff.NewInMemoryRepository()
	vet := seedVet(t, staffRepo)

	svc := NewScheduleService(staffRepo, appointments.NewInMemoryRepository(), nil, nil, 0, logging.Default())

	// 2026-09-06 is a Sunday.
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	sched, err := svc.DaySchedule(context.Background(), vet.ID, sunday)
	require.NoError(t, err)
	assert.False(t, sched.Works)
}

func TestDayScheduleClosedOnIrrenunciable(t *testing.T) {
	staffRepo := staff.NewInMemoryRepository()
	vet := seedVet(t, staffRepo)
	calendar := holidays.NewCalendar(holidays.ForYears(2026, 1))

	svc := NewScheduleService(staffRepo, appointments.NewInMemoryRepository(), calendar, nil, 0, logging.Default())

	// Fiestas Patrias 2026 falls on a Friday.
	sep18 := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	sched, err := svc.DaySchedule(context.Background(), vet.ID, sep18)
	require.NoError(t, err)
	assert.False(t, sched.Works, "irrenunciable holidays close the clinic")

	// A regular holiday keeps the clinic open: Dec 8 2026 is a Tuesday.
	dec8 := time.Date(2026, 12, 8, 0, 0, 0, 0, time.UTC)
	sched, err = svc.DaySchedule(context.Background(), vet.ID, dec8)
	require.NoError(t, err)
	assert.True(t, sched.Works)
}

func TestDayScheduleUnknownVet(t *testing.T) {
	svc := NewScheduleService(staff.NewInMemoryRepository(), appointments.NewInMemoryRepository(), nil, nil, 0, logging.Default())
	_, err := svc.DaySchedule(context.Background(), "nope", time.Now())
	assert.ErrorIs(t, err, staff.ErrNotFound)
}

func TestDayScheduleCacheHitAndInvalidate(t *testing.T) {
	staffRepo := staff.NewInMemoryRepository()
	apptRepo := appointments.NewInMemoryRepository()
	vet := seedVet(t, staffRepo)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := NewScheduleService(staffRepo, apptRepo, nil, client, time.Minute, logging.Default())

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	first, err := svc.DaySchedule(context.Background(), vet.ID, date)
	require.NoError(t, err)
	require.True(t, first.Works)

	// A booking after the cache fill is invisible until invalidation.
	_, err = apptRepo.CreateValidated(context.Background(), &appointments.CreateAppointmentRequest{
		PatientID: "pac-1", VetID: vet.ID, ServiceID: "svc-1",
		Date: date, StartBlock: 40, EndBlock: 42, Motivo: "control",
	})
	require.NoError(t, err)

	cached, err := svc.DaySchedule(context.Background(), vet.ID, date)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, cached.Blocks[40].Status)
	assert.Equal(t, vet.ID, cached.VetID)
	assert.Equal(t, date, cached.Date)

	svc.Invalidate(context.Background(), vet.ID, date)
	fresh, err := svc.DaySchedule(context.Background(), vet.ID, date)
	require.NoError(t, err)
	assert.Equal(t, StatusOccupied, fresh.Blocks[40].Status)
}
