package agenda

import "time"

// CellKind distinguishes the visual states of a grid cell.
type CellKind string

const (
	CellAvailable CellKind = "available"
	CellPast      CellKind = "past"
	CellOccupied  CellKind = "occupied"
)

// Cell is one visual unit of the grid. Occupied cells may span several
// quarter blocks when consecutive blocks belong to the same appointment.
type Cell struct {
	Kind       CellKind `json:"kind"`
	StartBlock int      `json:"start_block"`
	Span       int      `json:"span"`
	HoraInicio string   `json:"hora_inicio"`
	HoraFin    string   `json:"hora_fin,omitempty"`
	Bookable   bool     `json:"bookable"`

	// Occupied cells only. Single-span cells carry the abbreviated
	// projection (start time and patient); wider cells carry the full one.
	CitaID              string `json:"cita_id,omitempty"`
	PacienteNombre      string `json:"paciente_nombre,omitempty"`
	PropietarioNombre   string `json:"propietario_nombre,omitempty"`
	PropietarioTelefono string `json:"propietario_telefono,omitempty"`
	ServicioNombre      string `json:"servicio_nombre,omitempty"`
}

// HourSection groups the cells of one clock hour under its label.
type HourSection struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// Segment is the rendered form of one working range. The UI draws a
// non-interactive gap between consecutive segments.
type Segment struct {
	Range WorkingRange  `json:"rango"`
	Hours []HourSection `json:"hours"`
}

// DayGrid is the full rendered projection of one veterinarian's day.
type DayGrid struct {
	VetID    string    `json:"veterinario_id"`
	VetName  string    `json:"veterinario"`
	Date     string    `json:"fecha"`
	Segments []Segment `json:"segments"`

	// FirstRelevantBlock is the first available-or-occupied block at or
	// after "now", used by clients to auto-scroll. -1 when the day has none.
	FirstRelevantBlock int `json:"first_relevant_block"`
}

// BuildGrid renders a day schedule into its grid projection. Unavailable
// blocks are omitted entirely; maximal runs of occupied blocks sharing one
// appointment id merge into a single cell, never across an hour boundary.
// Available blocks already in the past relative to now are marked past and
// not bookable.
func BuildGrid(s DaySchedule, now time.Time) DayGrid {
	grid := DayGrid{
		VetID:              s.VetID,
		VetName:            s.VetName,
		Date:               s.Date.Format("2006-01-02"),
		FirstRelevantBlock: -1,
	}

	nowBlock := pastBoundary(s.Date, now)

	for _, r := range s.Ranges {
		seg := Segment{Range: r}

		firstHour := r.StartBlock / BlocksPerHour
		lastHour := (r.EndBlock - 1) / BlocksPerHour
		for hour := firstHour; hour <= lastHour; hour++ {
			section := HourSection{Hour: hour, Label: TimeForBlock(hour * BlocksPerHour)}

			hourStart := hour * BlocksPerHour
			hourEnd := hourStart + BlocksPerHour
			i := max(hourStart, r.StartBlock)
			limit := min(hourEnd, r.EndBlock)

			for i < limit {
				block, ok := s.BlockAt(i)
				if !ok {
					break
				}
				switch block.Status {
				case StatusUnavailable:
					i++
				case StatusOccupied:
					span := 1
					for i+span < limit {
						next, _ := s.BlockAt(i + span)
						if next.Status != StatusOccupied || next.CitaID != block.CitaID {
							break
						}
						span++
					}
					section.Cells = append(section.Cells, occupiedCell(block, i, span))
					i += span
				default:
					cell := Cell{
						Kind:       CellAvailable,
						StartBlock: i,
						Span:       1,
						HoraInicio: TimeForBlock(i),
						HoraFin:    TimeForBlock(i + 1),
						Bookable:   true,
					}
					if i < nowBlock {
						cell.Kind = CellPast
						cell.Bookable = false
					}
					section.Cells = append(section.Cells, cell)
					i++
				}
			}

			if len(section.Cells) > 0 {
				seg.Hours = append(seg.Hours, section)
			}
		}

		grid.Segments = append(grid.Segments, seg)
	}

	grid.FirstRelevantBlock = firstRelevantBlock(s, nowBlock)
	return grid
}

func occupiedCell(block Block, start, span int) Cell {
	cell := Cell{
		Kind:           CellOccupied,
		StartBlock:     start,
		Span:           span,
		HoraInicio:     TimeForBlock(start),
		CitaID:         block.CitaID,
		PacienteNombre: block.PacienteNombre,
	}
	if span > 1 {
		cell.HoraFin = TimeForBlock(start + span)
		cell.PropietarioNombre = block.PropietarioNombre
		cell.PropietarioTelefono = block.PropietarioTelefono
		cell.ServicioNombre = block.ServicioNombre
	}
	return cell
}

// pastBoundary returns the first block index that is NOT in the past for the
// scheduled date: 0 for future dates, BlocksPerDay for past dates, and the
// current block for today.
func pastBoundary(date time.Time, now time.Time) int {
	day := date.Format("2006-01-02")
	today := now.Format("2006-01-02")
	switch {
	case day < today:
		return BlocksPerDay
	case day > today:
		return 0
	default:
		return BlockForTime(now)
	}
}

func firstRelevantBlock(s DaySchedule, nowBlock int) int {
	start := nowBlock
	if start >= BlocksPerDay {
		return -1
	}
	for i := start; i < len(s.Blocks); i++ {
		if s.Blocks[i].Status == StatusAvailable || s.Blocks[i].Status == StatusOccupied {
			return i
		}
	}
	return -1
}
