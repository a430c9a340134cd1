package holidays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findByTitle(t *testing.T, list []Holiday, title string) Holiday {
	t.Helper()
	for _, h := range list {
		if h.Title == title {
			return h
		}
	}
	t.Fatalf("holiday %q not found", title)
	return Holiday{}
}

func TestEasterSunday(t *testing.T) {
	cases := map[int]string{
		2024: "2024-03-31",
		2025: "2025-04-20",
		2026: "2026-04-05",
		2000: "2000-04-23",
	}
	for year, want := range cases {
		assert.Equal(t, want, EasterSunday(year).Format("2006-01-02"), "year %d", year)
	}
}

func TestEasterDependentHolidays2025(t *testing.T) {
	list := Compute(2025)
	assert.Equal(t, "2025-04-18", findByTitle(t, list, "Viernes Santo").ISO())
	assert.Equal(t, "2025-04-19", findByTitle(t, list, "Sábado Santo").ISO())
}

func TestComputeIsIdempotent(t *testing.T) {
	first := Compute(2025)
	second := Compute(2025)
	require.Equal(t, first, second)
}

func TestComputeSortedByDate(t *testing.T) {
	list := Compute(2026)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Date.Before(list[i-1].Date), "holidays out of order at %d", i)
	}
}

func TestMondayMovableHolidays(t *testing.T) {
	// Oct 12 2025 falls on a Sunday: moves forward one day.
	assert.Equal(t, "2025-10-13", findByTitle(t, Compute(2025), "Encuentro de Dos Mundos").ISO())

	// Jun 29 2024 falls on a Saturday: moves forward two days.
	assert.Equal(t, "2024-07-01", findByTitle(t, Compute(2024), "San Pedro y San Pablo").ISO())

	// Jun 29 2026 is a Monday: kept.
	assert.Equal(t, "2026-06-29", findByTitle(t, Compute(2026), "San Pedro y San Pablo").ISO())
}

func TestEvangelicalChurchesDayRule(t *testing.T) {
	title := "Día de las Iglesias Evangélicas y Protestantes"
	cases := map[int]string{
		2023: "2023-10-30", // Tuesday, pulled to preceding Monday
		2018: "2018-10-29", // Wednesday, pulled to preceding Monday
		2021: "2021-11-01", // Sunday, pushed to following Monday
		2020: "2020-10-26", // Saturday, pulled to preceding Monday
		2025: "2025-10-31", // Friday, kept
	}
	for year, want := range cases {
		assert.Equal(t, want, findByTitle(t, Compute(year), title).ISO(), "year %d", year)
	}
}

func TestIrrenunciableFlags(t *testing.T) {
	list := Compute(2025)
	assert.True(t, findByTitle(t, list, "Año Nuevo").Irrenunciable)
	assert.True(t, findByTitle(t, list, "Día Nacional del Trabajo").Irrenunciable)
	assert.True(t, findByTitle(t, list, "Independencia Nacional").Irrenunciable)
	assert.True(t, findByTitle(t, list, "Navidad").Irrenunciable)
	assert.False(t, findByTitle(t, list, "Día de las Glorias Navales").Irrenunciable)
	assert.False(t, findByTitle(t, list, "Viernes Santo").Irrenunciable)
}

func TestCalendarSelectability(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	cal := NewCalendar(ForYears(2025, 2))

	// Past dates are never selectable.
	assert.False(t, cal.IsSelectable(time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC), now))

	// Today is still selectable.
	assert.True(t, cal.IsSelectable(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), now))

	// Irrenunciable holiday refuses selection.
	assert.False(t, cal.IsSelectable(time.Date(2025, time.September, 18, 0, 0, 0, 0, time.UTC), now))

	// Regular holiday is marked but selectable.
	assert.True(t, cal.IsSelectable(time.Date(2025, time.December, 8, 0, 0, 0, 0, time.UTC), now))

	// Next year's irrenunciable holidays are indexed too.
	assert.False(t, cal.IsSelectable(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), now))
}
