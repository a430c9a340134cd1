package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daySchedWithAppointment() DaySchedule {
	return Compose("vet-1", "Dr. Ramírez",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		[]WorkingRange{{StartBlock: 36, EndBlock: 64}},
		[]AppointmentSpan{{CitaID: "cita-1", StartBlock: 40, EndBlock: 42}})
}

func TestSpanAvailable(t *testing.T) {
	sched := daySchedWithAppointment()

	assert.True(t, SpanAvailable(sched.Blocks, 36, 4))
	assert.True(t, SpanAvailable(sched.Blocks, 62, 2), "span ends exactly at the range edge")

	// Second block of the span is occupied.
	assert.False(t, SpanAvailable(sched.Blocks, 39, 2))
	assert.False(t, SpanAvailable(sched.Blocks, 40, 1), "occupied start block")
	assert.False(t, SpanAvailable(sched.Blocks, 63, 2), "span crosses the range boundary")
	assert.False(t, SpanAvailable(sched.Blocks, 95, 2), "span runs past the end of the day")
	assert.False(t, SpanAvailable(sched.Blocks, -1, 2))
	assert.False(t, SpanAvailable(sched.Blocks, 36, 0))
}

func TestPreviewRangeAllOrNothing(t *testing.T) {
	sched := daySchedWithAppointment()

	assert.Equal(t, []int{36, 37, 38}, PreviewRange(sched.Blocks, 36, 3))
	assert.Nil(t, PreviewRange(sched.Blocks, 39, 2), "partial availability previews nothing")
	assert.Nil(t, PreviewRange(sched.Blocks, 94, 4))
}

func TestSelectRangeStagesDraft(t *testing.T) {
	sched := daySchedWithAppointment()

	draft, err := SelectRange(sched, 36, SelectionParams{
		PatientID:      "pac-1",
		ServiceID:      "svc-1",
		RequiredBlocks: 2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, "vet-1", draft.VetID)
	assert.Equal(t, "2026-09-01", draft.Date)
	assert.Equal(t, 36, draft.StartBlock)
	assert.Equal(t, 2, draft.RequiredBlocks)
	assert.Equal(t, "09:00", draft.HoraInicio)
	assert.Equal(t, "09:30", draft.HoraFin)
}

func TestSelectRangeGuards(t *testing.T) {
	sched := daySchedWithAppointment()

	_, err := SelectRange(sched, 36, SelectionParams{PatientID: "pac-1"})
	assert.ErrorIs(t, err, ErrServiceNotChosen)

	_, err = SelectRange(sched, 36, SelectionParams{ServiceID: "svc-1", RequiredBlocks: 2})
	assert.ErrorIs(t, err, ErrPatientNotChosen)

	_, err = SelectRange(sched, 39, SelectionParams{
		PatientID: "pac-1", ServiceID: "svc-1", RequiredBlocks: 2,
	})
	assert.ErrorIs(t, err, ErrSpanUnavailable)
}
