// Package agenda implements the 15-minute block scheduling grid: day
// schedules, contiguous-occupied merging, selection previews and the booking
// confirmation flow.
package agenda

import (
	"fmt"
	"time"
)

const (
	// BlocksPerDay partitions a day into 15-minute intervals from 00:00.
	BlocksPerDay = 96
	// BlockMinutes is the length of a single block.
	BlockMinutes = 15
	// BlocksPerHour is the number of quarter blocks in one hour.
	BlocksPerHour = 4
)

// BlockStatus describes the bookability of a single block.
type BlockStatus string

const (
	StatusAvailable   BlockStatus = "available"
	StatusOccupied    BlockStatus = "occupied"
	StatusUnavailable BlockStatus = "unavailable"
)

// Block is one 15-minute scheduling unit. Occupied blocks carry a read-only
// projection of the appointment that fills them; blocks of the same
// appointment are contiguous and share cita_id, which is the merge key for
// rendering.
type Block struct {
	Status    BlockStatus `json:"status"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time,omitempty"`

	CitaID              string `json:"cita_id,omitempty"`
	PacienteID          string `json:"paciente_id,omitempty"`
	PacienteNombre      string `json:"paciente_nombre,omitempty"`
	PropietarioNombre   string `json:"propietario_nombre,omitempty"`
	PropietarioTelefono string `json:"propietario_telefono,omitempty"`
	PropietarioEmail    string `json:"propietario_email,omitempty"`
	ServicioNombre      string `json:"servicio_nombre,omitempty"`
	Fecha               string `json:"fecha,omitempty"`
	HoraInicio          string `json:"hora_inicio,omitempty"`
	HoraFin             string `json:"hora_fin,omitempty"`
}

// WorkingRange is a contiguous span of on-duty blocks. EndBlock is exclusive:
// blocks [StartBlock, EndBlock) are on duty.
type WorkingRange struct {
	StartBlock int `json:"start_block"`
	EndBlock   int `json:"end_block"`
}

// Contains reports whether block index i falls inside the range.
func (r WorkingRange) Contains(i int) bool {
	return i >= r.StartBlock && i < r.EndBlock
}

// DaySchedule is one veterinarian's full day: the 96 blocks plus the working
// ranges describing when they are on duty.
type DaySchedule struct {
	VetID   string    `json:"-"`
	Date    time.Time `json:"-"`
	Works   bool      `json:"trabaja"`
	VetName string    `json:"veterinario"`

	Ranges []WorkingRange `json:"rangos"`
	Blocks []Block        `json:"blocks"`
}

// BlockAt returns the block at index i, or false when i is out of the day.
func (s *DaySchedule) BlockAt(i int) (Block, bool) {
	if i < 0 || i >= len(s.Blocks) {
		return Block{}, false
	}
	return s.Blocks[i], true
}

// TimeForBlock formats the wall-clock start of block i as HH:MM.
func TimeForBlock(i int) string {
	minutes := i * BlockMinutes
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// BlockForTime returns the block index containing the given wall-clock time.
func BlockForTime(t time.Time) int {
	return (t.Hour()*60 + t.Minute()) / BlockMinutes
}

// RequiredBlocks converts a service duration to the number of contiguous
// blocks it needs.
func RequiredBlocks(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 0
	}
	return (durationMinutes + BlockMinutes - 1) / BlockMinutes
}

// AppointmentSpan places one appointment's projection onto a day schedule.
// EndBlock is exclusive.
type AppointmentSpan struct {
	CitaID              string
	PacienteID          string
	PacienteNombre      string
	PropietarioNombre   string
	PropietarioTelefono string
	PropietarioEmail    string
	ServicioNombre      string
	StartBlock          int
	EndBlock            int
}

// Compose builds a DaySchedule from working ranges and appointment spans.
// Blocks outside every range are unavailable; blocks inside a range default
// to available and are overwritten by the appointments occupying them.
func Compose(vetID, vetName string, date time.Time, ranges []WorkingRange, appts []AppointmentSpan) DaySchedule {
	sched := DaySchedule{
		VetID:   vetID,
		VetName: vetName,
		Date:    date,
		Works:   len(ranges) > 0,
		Ranges:  ranges,
		Blocks:  make([]Block, BlocksPerDay),
	}

	for i := range sched.Blocks {
		sched.Blocks[i] = Block{
			Status:    StatusUnavailable,
			StartTime: TimeForBlock(i),
			EndTime:   TimeForBlock(i + 1),
		}
	}
	for _, r := range ranges {
		for i := r.StartBlock; i < r.EndBlock && i < BlocksPerDay; i++ {
			sched.Blocks[i].Status = StatusAvailable
		}
	}

	fecha := date.Format("2006-01-02")
	for _, a := range appts {
		for i := a.StartBlock; i < a.EndBlock && i < BlocksPerDay; i++ {
			if i < 0 {
				continue
			}
			b := &sched.Blocks[i]
			b.Status = StatusOccupied
			b.CitaID = a.CitaID
			b.PacienteID = a.PacienteID
			b.PacienteNombre = a.PacienteNombre
			b.PropietarioNombre = a.PropietarioNombre
			b.PropietarioTelefono = a.PropietarioTelefono
			b.PropietarioEmail = a.PropietarioEmail
			b.ServicioNombre = a.ServicioNombre
			b.Fecha = fecha
			b.HoraInicio = TimeForBlock(a.StartBlock)
			b.HoraFin = TimeForBlock(a.EndBlock)
		}
	}

	return sched
}
