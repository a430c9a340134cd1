package agenda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vetlink-cl/agenda-platform/internal/appointments"
	"github.com/vetlink-cl/agenda-platform/internal/events"
	"github.com/vetlink-cl/agenda-platform/internal/catalog"
	"github.com/vetlink-cl/agenda-platform/internal/holidays"
	"github.com/vetlink-cl/agenda-platform/internal/observability/metrics"
	"github.com/vetlink-cl/agenda-platform/internal/patients"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// OutboxInserter stages a domain event for asynchronous delivery.
type OutboxInserter interface {
	Insert(ctx context.Context, eventType string, payload any) error
}

// Notifier sends booking communications to the pet's owner.
type Notifier interface {
	BookingConfirmed(ctx context.Context, appt *appointments.Appointment)
}

// Broadcaster pushes live schedule-change notices to connected clients.
type Broadcaster interface {
	ScheduleChanged(vetID, fecha string)
}

// BookingService drives the selection and confirmation flow: staging a draft
// from a clicked block, confirming it into a persisted appointment, and the
// estado transitions afterwards. Side effects that are not part of the
// booking itself (events, email, live updates) never fail a confirmed
// booking.
type BookingService struct {
	schedules *ScheduleService
	drafts    *DraftStore
	catalog   catalog.Repository
	patients  patients.Repository
	appts     appointments.Repository
	history   *appointments.HistoryStore
	calendar  *holidays.Calendar
	outbox    OutboxInserter
	notifier  Notifier
	live      Broadcaster
	metrics   *metrics.AgendaMetrics
	logger    *logging.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// BookingServiceDeps collects the booking service wiring.
type BookingServiceDeps struct {
	Schedules *ScheduleService
	Drafts    *DraftStore
	Catalog   catalog.Repository
	Patients  patients.Repository
	Appts     appointments.Repository
	History   *appointments.HistoryStore
	Calendar  *holidays.Calendar
	Outbox    OutboxInserter
	Notifier  Notifier
	Live      Broadcaster
	Metrics   *metrics.AgendaMetrics
	Logger    *logging.Logger
}

// NewBookingService wires the booking flow. Outbox, notifier, live and
// metrics may be nil.
func NewBookingService(deps BookingServiceDeps) *BookingService {
	if deps.Schedules == nil || deps.Drafts == nil || deps.Catalog == nil || deps.Patients == nil || deps.Appts == nil {
		panic("agenda: booking service missing required dependencies")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingService{
		schedules: deps.Schedules,
		drafts:    deps.Drafts,
		catalog:   deps.Catalog,
		patients:  deps.Patients,
		appts:     deps.Appts,
		history:   deps.History,
		calendar:  deps.Calendar,
		outbox:    deps.Outbox,
		notifier:  deps.Notifier,
		live:      deps.Live,
		metrics:   deps.Metrics,
		logger:    logger.WithComponent("agenda.booking"),
		tracer:    otel.Tracer("agenda"),
		now:       time.Now,
	}
}

// StageSelectionRequest is a click on a starting block.
type StageSelectionRequest struct {
	VetID      string
	Date       time.Time
	StartBlock int
	PatientID  string
	ServiceID  string
}

// StageSelection validates a clicked span and stores a confirmation draft.
// The same availability predicate as the hover preview runs again here, so a
// click on stale state is rejected rather than staged.
func (s *BookingService) StageSelection(ctx context.Context, req StageSelectionRequest) (*ConfirmationDraft, error) {
	ctx, span := s.tracer.Start(ctx, "agenda.StageSelection",
		trace.WithAttributes(attribute.String("veterinario_id", req.VetID)))
	defer span.End()

	if s.calendar != nil && !s.calendar.IsSelectable(req.Date, s.now()) {
		return nil, ErrDateNotSelectable
	}
	if req.ServiceID == "" {
		return nil, ErrServiceNotChosen
	}
	if req.PatientID == "" {
		return nil, ErrPatientNotChosen
	}

	svc, err := s.catalog.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("agenda: load service: %w", err)
	}
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("agenda: load patient: %w", err)
	}

	sched, err := s.schedules.DaySchedule(ctx, req.VetID, req.Date)
	if err != nil {
		return nil, err
	}
	if startElapsed(req.Date, req.StartBlock, s.now()) {
		return nil, ErrSpanUnavailable
	}

	draft, err := SelectRange(*sched, req.StartBlock, SelectionParams{
		PatientID:      req.PatientID,
		ServiceID:      req.ServiceID,
		RequiredBlocks: svc.RequiredBlocks(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// ConfirmRequest carries the final confirmation form.
type ConfirmRequest struct {
	DraftID string
	Motivo  string
	Notas   string
}

// Confirm turns a staged draft into a persisted appointment. The span is
// re-validated against the current day schedule and again atomically with the
// insert; when it was taken in the meantime the draft is kept so the user can
// pick another span. On success the draft is consumed.
func (s *BookingService) Confirm(ctx context.Context, req ConfirmRequest) (*appointments.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "agenda.Confirm",
		trace.WithAttributes(attribute.String("draft_id", req.DraftID)))
	defer span.End()

	if strings.TrimSpace(req.Motivo) == "" {
		s.metrics.RecordBooking("rejected_validation")
		return nil, ErrMissingMotivo
	}

	draft, err := s.drafts.Get(ctx, req.DraftID)
	if err != nil {
		s.metrics.RecordBooking("rejected_validation")
		return nil, err
	}
	date, err := time.Parse("2006-01-02", draft.Date)
	if err != nil {
		return nil, fmt.Errorf("agenda: draft date: %w", err)
	}

	// The schedule may have changed since the draft was staged (updated
	// working hours, a booking on the same span). Re-check against the
	// current day before inserting; the repository's transactional overlap
	// check stays the authority for races with concurrent inserts.
	sched, err := s.checkSpan(ctx, draft.VetID, date, draft.StartBlock, draft.RequiredBlocks)
	if err != nil {
		return nil, err
	}

	appt, err := s.appts.CreateValidated(ctx, &appointments.CreateAppointmentRequest{
		PatientID:  draft.PatientID,
		VetID:      draft.VetID,
		ServiceID:  draft.ServiceID,
		Date:       date,
		StartBlock: draft.StartBlock,
		EndBlock:   draft.StartBlock + draft.RequiredBlocks,
		Motivo:     req.Motivo,
		Notas:      req.Notas,
	})
	if errors.Is(err, appointments.ErrBlocksTaken) {
		s.metrics.RecordBooking("rejected_conflict")
		return nil, err
	}
	if err != nil {
		s.metrics.RecordBooking("error")
		return nil, err
	}

	if err := s.drafts.Delete(ctx, draft.ID); err != nil {
		s.logger.Warn("draft cleanup failed", "draft_id", draft.ID, "error", err)
	}
	s.decorate(ctx, appt, sched.VetName)
	s.schedules.Invalidate(ctx, appt.VetID, date)
	s.afterBooking(ctx, appt)
	s.metrics.RecordBooking("confirmed")
	return appt, nil
}

// DirectBookingRequest books a span in one shot, without a staged draft.
// HoraInicio is the wall-clock start ("HH:MM") of the first block.
type DirectBookingRequest struct {
	PatientID  string
	ServiceID  string
	VetID      string
	Date       time.Time
	HoraInicio string
	Motivo     string
	Notas      string
	Tipo       string
	Estado     string
}

// Book confirms a booking directly from the wire request. The span length
// comes from the service catalog and availability is validated atomically
// with the insert, the same way the draft flow does it.
func (s *BookingService) Book(ctx context.Context, req DirectBookingRequest) (*appointments.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "agenda.Book",
		trace.WithAttributes(attribute.String("veterinario_id", req.VetID)))
	defer span.End()

	if s.calendar != nil && !s.calendar.IsSelectable(req.Date, s.now()) {
		s.metrics.RecordBooking("rejected_validation")
		return nil, ErrDateNotSelectable
	}
	if req.ServiceID == "" {
		s.metrics.RecordBooking("rejected_validation")
		return nil, ErrServiceNotChosen
	}
	if req.PatientID == "" {
		s.metrics.RecordBooking("rejected_validation")
		return nil, ErrPatientNotChosen
	}
	if strings.TrimSpace(req.Motivo) == "" {
		s.metrics.RecordBooking("rejected_validation")
		return nil, ErrMissingMotivo
	}

	svc, err := s.catalog.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("agenda: load service: %w", err)
	}
	start, err := parseBlockTime(req.HoraInicio)
	if err != nil {
		s.metrics.RecordBooking("rejected_validation")
		return nil, err
	}

	// Direct bookings bypass the staged-draft predicate, so the same schedule
	// check runs here: the span must sit inside the veterinarian's working
	// ranges and touch no occupied block.
	sched, err := s.checkSpan(ctx, req.VetID, req.Date, start, svc.RequiredBlocks())
	if err != nil {
		return nil, err
	}

	appt, err := s.appts.CreateValidated(ctx, &appointments.CreateAppointmentRequest{
		PatientID:  req.PatientID,
		VetID:      req.VetID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		StartBlock: start,
		EndBlock:   start + svc.RequiredBlocks(),
		Motivo:     req.Motivo,
		Notas:      req.Notas,
		Tipo:       req.Tipo,
		Estado:     appointments.Estado(req.Estado),
	})
	if errors.Is(err, appointments.ErrBlocksTaken) {
		s.metrics.RecordBooking("rejected_conflict")
		return nil, err
	}
	if err != nil {
		s.metrics.RecordBooking("error")
		return nil, err
	}

	s.decorate(ctx, appt, sched.VetName)
	s.schedules.Invalidate(ctx, appt.VetID, req.Date)
	s.afterBooking(ctx, appt)
	s.metrics.RecordBooking("confirmed")
	return appt, nil
}

func parseBlockTime(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("agenda: hora_inicio %q: %w", hhmm, err)
	}
	return BlockForTime(t), nil
}

// checkSpan validates a span against the veterinarian's current day schedule.
// It fails spans outside the working ranges, spans touching an occupied
// block, and spans for today whose starting block has already passed.
func (s *BookingService) checkSpan(ctx context.Context, vetID string, date time.Time, start, required int) (*DaySchedule, error) {
	sched, err := s.schedules.DaySchedule(ctx, vetID, date)
	if err != nil {
		return nil, err
	}
	if !SpanAvailable(sched.Blocks, start, required) || startElapsed(date, start, s.now()) {
		s.metrics.RecordBooking("rejected_validation")
		return nil, ErrSpanUnavailable
	}
	return sched, nil
}

// startElapsed reports whether the starting block already passed. Only today
// can elapse block by block; past dates fall to the calendar check and future
// dates never elapse.
func startElapsed(date time.Time, start int, now time.Time) bool {
	now = now.In(date.Location())
	if date.Year() != now.Year() || date.YearDay() != now.YearDay() {
		return false
	}
	return start < BlockForTime(now)
}

// decorate fills the display projection on a freshly inserted appointment.
// The insert returns only the appointment row; the owner email and the names
// rendered on occupied blocks come from the patient registry and the service
// catalog. A failed lookup degrades the projection, never the booking.
func (s *BookingService) decorate(ctx context.Context, appt *appointments.Appointment, vetName string) {
	appt.VetName = vetName
	pat, err := s.patients.Get(ctx, appt.PatientID)
	if err != nil {
		s.logger.Warn("patient projection failed", "cita_id", appt.ID, "error", err)
	} else {
		appt.PatientName = pat.Name
		appt.OwnerName = pat.OwnerName
		appt.OwnerPhone = pat.OwnerPhone
		appt.OwnerEmail = pat.OwnerEmail
	}
	svc, err := s.catalog.Get(ctx, appt.ServiceID)
	if err != nil {
		s.logger.Warn("service projection failed", "cita_id", appt.ID, "error", err)
	} else {
		appt.ServiceName = svc.Name
	}
}

func (s *BookingService) afterBooking(ctx context.Context, appt *appointments.Appointment) {
	if s.outbox != nil {
		event := events.AppointmentBookedV1{
			EventID:        uuid.NewString(),
			CitaID:         appt.ID,
			PacienteID:     appt.PatientID,
			VeterinarioID:  appt.VetID,
			ServicioID:     appt.ServiceID,
			Fecha:          appt.Fecha,
			BloqueInicio:   appt.StartBlock,
			BloqueFin:      appt.EndBlock,
			HoraInicio:     appt.HoraInicio,
			HoraFin:        appt.HoraFin,
			Motivo:         appt.Motivo,
			BookedAt:       appt.CreatedAt,
			PropietarioTel: appt.OwnerPhone,
		}
		if err := s.outbox.Insert(ctx, "appointment.booked.v1", event); err != nil {
			s.logger.Error("outbox insert failed", "cita_id", appt.ID, "error", err)
		}
	}
	if s.notifier != nil {
		go s.notifier.BookingConfirmed(context.WithoutCancel(ctx), appt)
	}
	if s.live != nil {
		s.live.ScheduleChanged(appt.VetID, appt.Fecha)
	}
}

// Get returns one appointment with its display projection.
func (s *BookingService) Get(ctx context.Context, citaID string) (*appointments.Appointment, error) {
	return s.appts.Get(ctx, citaID)
}

// Start moves a pending appointment into en_curso.
func (s *BookingService) Start(ctx context.Context, citaID, actor string) (*appointments.Appointment, error) {
	return s.transition(ctx, citaID, actor, appointments.EstadoEnCurso, "appointment.started.v1")
}

// Complete moves an in-progress appointment into completada.
func (s *BookingService) Complete(ctx context.Context, citaID, actor string) (*appointments.Appointment, error) {
	return s.transition(ctx, citaID, actor, appointments.EstadoCompletada, "appointment.completed.v1")
}

// Cancel cancels a pending appointment, freeing its blocks.
func (s *BookingService) Cancel(ctx context.Context, citaID, actor string) (*appointments.Appointment, error) {
	return s.transition(ctx, citaID, actor, appointments.EstadoCancelada, "appointment.cancelled.v1")
}

func (s *BookingService) transition(ctx context.Context, citaID, actor string, to appointments.Estado, eventType string) (*appointments.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "agenda.Transition",
		trace.WithAttributes(attribute.String("cita_id", citaID), attribute.String("estado", string(to))))
	defer span.End()

	appt, err := s.appts.Get(ctx, citaID)
	if err != nil {
		return nil, err
	}
	from := appt.Estado
	if err := s.appts.UpdateEstado(ctx, citaID, from, to); err != nil {
		return nil, err
	}
	appt.Estado = to

	if s.history != nil {
		if err := s.history.Record(ctx, citaID, from, to, actor); err != nil {
			s.logger.Error("history record failed", "cita_id", citaID, "error", err)
		}
	}
	if s.outbox != nil {
		if err := s.outbox.Insert(ctx, eventType, transitionEvent(citaID, to, actor, s.now().UTC())); err != nil {
			s.logger.Error("outbox insert failed", "cita_id", citaID, "error", err)
		}
	}
	s.schedules.Invalidate(ctx, appt.VetID, appt.Date)
	if s.live != nil {
		s.live.ScheduleChanged(appt.VetID, appt.Fecha)
	}
	return appt, nil
}

func transitionEvent(citaID string, to appointments.Estado, actor string, at time.Time) any {
	switch to {
	case appointments.EstadoEnCurso:
		return events.AppointmentStartedV1{EventID: uuid.NewString(), CitaID: citaID, StartedAt: at, Actor: actor}
	case appointments.EstadoCompletada:
		return events.AppointmentCompletedV1{EventID: uuid.NewString(), CitaID: citaID, CompletedAt: at, Actor: actor}
	default:
		return events.AppointmentCancelledV1{EventID: uuid.NewString(), CitaID: citaID, CancelledAt: at, Actor: actor}
	}
}
