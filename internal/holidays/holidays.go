// Package holidays computes Chilean public holidays for the agenda calendar.
package holidays

import (
	"encoding/json"
	"sort"
	"time"
)

// Holiday is a single public holiday. Irrenunciable holidays may not legally
// have work scheduled on them.
type Holiday struct {
	Date          time.Time
	Title         string
	Irrenunciable bool
}

// ISO returns the holiday date formatted as YYYY-MM-DD.
func (h Holiday) ISO() string {
	return h.Date.Format("2006-01-02")
}

// MarshalJSON emits the calendar wire form with the ISO date.
func (h Holiday) MarshalJSON() ([]byte, error) {
	type wire struct {
		Fecha         string `json:"fecha"`
		Titulo        string `json:"titulo"`
		Irrenunciable bool   `json:"irrenunciable"`
	}
	return json.Marshal(wire{Fecha: h.ISO(), Titulo: h.Title, Irrenunciable: h.Irrenunciable})
}

type fixedHoliday struct {
	month         time.Month
	day           int
	title         string
	irrenunciable bool
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Año Nuevo", true},
	{time.May, 1, "Día Nacional del Trabajo", true},
	{time.May, 21, "Día de las Glorias Navales", false},
	{time.July, 16, "Virgen del Carmen", false},
	{time.August, 15, "Asunción de la Virgen", false},
	{time.September, 18, "Independencia Nacional", true},
	{time.September, 19, "Día de las Glorias del Ejército", true},
	{time.November, 1, "Día de Todos los Santos", false},
	{time.December, 8, "Inmaculada Concepción", false},
	{time.December, 25, "Navidad", true},
}

// Compute returns every Chilean public holiday of the given year, sorted by
// date. The result is a pure function of the year.
func Compute(year int) []Holiday {
	list := make([]Holiday, 0, len(fixedHolidays)+5)

	for _, f := range fixedHolidays {
		list = append(list, Holiday{
			Date:          date(year, f.month, f.day),
			Title:         f.title,
			Irrenunciable: f.irrenunciable,
		})
	}

	list = append(list,
		Holiday{Date: moveToMonday(date(year, time.June, 29)), Title: "San Pedro y San Pablo"},
		Holiday{Date: moveToMonday(date(year, time.October, 12)), Title: "Encuentro de Dos Mundos"},
		Holiday{Date: moveEvangelical(date(year, time.October, 31)), Title: "Día de las Iglesias Evangélicas y Protestantes"},
	)

	easter := EasterSunday(year)
	list = append(list,
		Holiday{Date: easter.AddDate(0, 0, -2), Title: "Viernes Santo"},
		Holiday{Date: easter.AddDate(0, 0, -1), Title: "Sábado Santo"},
	)

	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list
}

// EasterSunday computes the Gregorian Easter Sunday for the given year using
// the Meeus/Jones/Butcher algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return date(year, time.Month(month), day)
}

// moveToMonday applies the ley de feriados trasladables: Saturday moves two
// days forward, Sunday one day forward, weekdays are kept.
func moveToMonday(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d
	}
}

// moveEvangelical applies the displacement rule for October 31 as the clinic
// observes it: Tuesday and Wednesday pull back to the preceding Monday,
// Saturday pulls back to the preceding Monday, Sunday pushes forward to the
// following Monday. Monday, Thursday and Friday are kept.
func moveEvangelical(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Tuesday:
		return d.AddDate(0, 0, -1)
	case time.Wednesday:
		return d.AddDate(0, 0, -2)
	case time.Saturday:
		return d.AddDate(0, 0, -5)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d
	}
}

// ForYears computes holidays for consecutive years starting at first. The
// calendar UI shows the current year plus the next one.
func ForYears(first int, count int) []Holiday {
	var list []Holiday
	for y := first; y < first+count; y++ {
		list = append(list, Compute(y)...)
	}
	return list
}

// Calendar answers date-selectability questions for the agenda UI.
type Calendar struct {
	byDate map[string]Holiday
}

// NewCalendar indexes the given holidays by date.
func NewCalendar(list []Holiday) *Calendar {
	byDate := make(map[string]Holiday, len(list))
	for _, h := range list {
		byDate[h.ISO()] = h
	}
	return &Calendar{byDate: byDate}
}

// Lookup returns the holiday on the given date, if any.
func (c *Calendar) Lookup(d time.Time) (Holiday, bool) {
	h, ok := c.byDate[d.Format("2006-01-02")]
	return h, ok
}

// IsSelectable reports whether the given date may be picked in the agenda:
// dates fully in the past and irrenunciable holidays are refused. Regular
// holidays remain selectable (they are only marked).
func (c *Calendar) IsSelectable(d time.Time, now time.Time) bool {
	day := date(d.Year(), d.Month(), d.Day())
	today := date(now.Year(), now.Month(), now.Day())
	if day.Before(today) {
		return false
	}
	if h, ok := c.Lookup(day); ok && h.Irrenunciable {
		return false
	}
	return true
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
