package agenda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vetlink-cl/agenda-platform/internal/appointments"
	"github.com/vetlink-cl/agenda-platform/internal/holidays"
	"github.com/vetlink-cl/agenda-platform/internal/staff"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

const scheduleKeyPrefix = "agenda:dia:"

// ScheduleService assembles a veterinarian's day schedule from their weekly
// working hours and the day's appointments. On irrenunciable holidays the
// clinic is closed and every veterinarian is off duty. A short-lived Redis
// cache absorbs the repeated reads a grid render produces; bookings
// invalidate it.
type ScheduleService struct {
	staff    staff.Repository
	appts    appointments.Repository
	calendar *holidays.Calendar
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *logging.Logger
}

// NewScheduleService wires the schedule assembler. cache may be nil to skip
// caching.
func NewScheduleService(staffRepo staff.Repository, apptRepo appointments.Repository, calendar *holidays.Calendar, cache *redis.Client, cacheTTL time.Duration, logger *logging.Logger) *ScheduleService {
	if staffRepo == nil || apptRepo == nil {
		panic("agenda: staff and appointment repositories required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		staff:    staffRepo,
		appts:    apptRepo,
		calendar: calendar,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.WithComponent("agenda.schedule"),
	}
}

func scheduleKey(vetID string, date time.Time) string {
	return scheduleKeyPrefix + vetID + ":" + date.Format("2006-01-02")
}

// DaySchedule implements ScheduleFetcher.
func (s *ScheduleService) DaySchedule(ctx context.Context, vetID string, date time.Time) (*DaySchedule, error) {
	if cached := s.fromCache(ctx, vetID, date); cached != nil {
		return cached, nil
	}

	vet, err := s.staff.Get(ctx, vetID)
	if err != nil {
		return nil, fmt.Errorf("agenda: load veterinarian: %w", err)
	}

	var ranges []WorkingRange
	if !s.closedOn(date) {
		staffRanges, err := s.staff.RangesOn(ctx, vetID, date)
		if err != nil {
			return nil, fmt.Errorf("agenda: load working hours: %w", err)
		}
		for _, r := range staffRanges {
			ranges = append(ranges, WorkingRange{StartBlock: r.StartBlock, EndBlock: r.EndBlock})
		}
	}

	var spans []AppointmentSpan
	if len(ranges) > 0 {
		dayAppts, err := s.appts.ListForVetDate(ctx, vetID, date)
		if err != nil {
			return nil, fmt.Errorf("agenda: load appointments: %w", err)
		}
		for _, a := range dayAppts {
			spans = append(spans, AppointmentSpan{
				CitaID:              a.ID,
				PacienteID:          a.PatientID,
				PacienteNombre:      a.PatientName,
				PropietarioNombre:   a.OwnerName,
				PropietarioTelefono: a.OwnerPhone,
				PropietarioEmail:    a.OwnerEmail,
				ServicioNombre:      a.ServiceName,
				StartBlock:          a.StartBlock,
				EndBlock:            a.EndBlock,
			})
		}
	}

	sched := Compose(vetID, vet.Name, date, ranges, spans)
	s.toCache(ctx, &sched)
	return &sched, nil
}

// Invalidate drops the cached schedule for one veterinarian day. Booking and
// estado transitions call it before broadcasting the change.
func (s *ScheduleService) Invalidate(ctx context.Context, vetID string, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, scheduleKey(vetID, date)).Err(); err != nil {
		s.logger.Warn("schedule cache invalidate failed", "veterinario_id", vetID, "error", err)
	}
}

func (s *ScheduleService) closedOn(date time.Time) bool {
	if s.calendar == nil {
		return false
	}
	h, ok := s.calendar.Lookup(date)
	return ok && h.Irrenunciable
}

func (s *ScheduleService) fromCache(ctx context.Context, vetID string, date time.Time) *DaySchedule {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, scheduleKey(vetID, date)).Bytes()
	if err != nil {
		return nil
	}
	var sched DaySchedule
	if err := json.Unmarshal(raw, &sched); err != nil {
		return nil
	}
	sched.VetID = vetID
	sched.Date = date
	return &sched
}

func (s *ScheduleService) toCache(ctx context.Context, sched *DaySchedule) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(sched)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, scheduleKey(sched.VetID, sched.Date), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("schedule cache write failed", "veterinario_id", sched.VetID, "error", err)
	}
}
