package agenda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vetlink-cl/agenda-platform/internal/appointments"
	"github.com/vetlink-cl/agenda-platform/internal/holidays"
	"github.com/vetlink-cl/agenda-platform/internal/http/middleware"
	"github.com/vetlink-cl/agenda-platform/internal/observability/metrics"
	"github.com/vetlink-cl/agenda-platform/internal/staff"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// Handler handles HTTP requests for the scheduling grid and the booking
// flow. Dates arrive as path segments ({year}/{month}/{day}); responses use
// the same field names the grid consumes.
type Handler struct {
	booking    *BookingService
	schedules  *ScheduleService
	loader     *DayLoader
	staff      staff.Repository
	calendar   *holidays.Calendar
	metrics    *metrics.AgendaMetrics
	windowSize int
	location   *time.Location
	logger     *logging.Logger
	now        func() time.Time
}

// HandlerDeps collects the agenda handler wiring.
type HandlerDeps struct {
	Booking    *BookingService
	Schedules  *ScheduleService
	Loader     *DayLoader
	Staff      staff.Repository
	Calendar   *holidays.Calendar
	Metrics    *metrics.AgendaMetrics
	WindowSize int
	Location   *time.Location
	Logger     *logging.Logger
}

// NewHandler creates the agenda handler.
func NewHandler(deps HandlerDeps) *Handler {
	if deps.Booking == nil || deps.Schedules == nil || deps.Loader == nil || deps.Staff == nil {
		panic("agenda: handler missing required dependencies")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	windowSize := deps.WindowSize
	if windowSize <= 0 {
		windowSize = 2
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		booking:    deps.Booking,
		schedules:  deps.Schedules,
		loader:     deps.Loader,
		staff:      deps.Staff,
		calendar:   deps.Calendar,
		metrics:    deps.Metrics,
		windowSize: windowSize,
		location:   loc,
		logger:     logger.WithComponent("agenda.handler"),
		now:        time.Now,
	}
}

func (h *Handler) dateParam(r *http.Request) (time.Time, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return time.Time{}, err
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return time.Time{}, err
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		return time.Time{}, err
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, errors.New("fecha fuera de rango")
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, h.location), nil
}

// Blocks handles GET /agenda/bloques/{vetID}/{year}/{month}/{day}.
func (h *Handler) Blocks(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	vetID := chi.URLParam(r, "vetID")
	sched, err := h.schedules.DaySchedule(r.Context(), vetID, date)
	if errors.Is(err, staff.ErrNotFound) {
		http.Error(w, "veterinarian not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("day schedule failed", "veterinario_id", vetID, "error", err)
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

// Grid handles GET /agenda/grilla/{year}/{month}/{day}?veterinario=&offset=.
// It loads every working veterinarian's day concurrently, projects each
// schedule into a renderable grid and pages the result.
func (h *Handler) Grid(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	vets, err := h.staff.List(r.Context())
	if err != nil {
		h.logger.Error("staff list failed", "error", err)
		http.Error(w, "failed to load staff", http.StatusInternalServerError)
		return
	}

	vetFilter := r.URL.Query().Get("veterinario")
	var vetIDs []string
	for _, v := range vets {
		if vetFilter == "" || v.ID == vetFilter {
			vetIDs = append(vetIDs, v.ID)
		}
	}

	started := time.Now()
	result, err := h.loader.LoadAll(r.Context(), vetIDs, date)
	if err != nil {
		h.logger.Error("day load failed", "fecha", date.Format("2006-01-02"), "error", err)
		http.Error(w, "failed to load day", http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveDayLoad(time.Since(started))

	now := h.now().In(h.location)
	grids := make([]DayGrid, 0, len(result.Working))
	for _, sched := range result.Working {
		grids = append(grids, BuildGrid(sched, now))
		h.metrics.RecordGridBuild()
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	page := Paginate(grids, offset, h.windowSize)

	resp := map[string]any{
		"fecha":  date.Format("2006-01-02"),
		"pagina": page,
	}
	if h.calendar != nil {
		if holiday, ok := h.calendar.Lookup(date); ok {
			resp["feriado"] = holiday
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type stageSelectionBody struct {
	VetID      string `json:"veterinario_id"`
	Fecha      string `json:"fecha"`
	StartBlock int    `json:"bloque_inicio"`
	PatientID  string `json:"paciente_id"`
	ServiceID  string `json:"servicio_id"`
}

// StageSelection handles POST /agenda/seleccion.
func (h *Handler) StageSelection(w http.ResponseWriter, r *http.Request) {
	var body stageSelectionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, err := time.ParseInLocation("2006-01-02", body.Fecha, h.location)
	if err != nil {
		http.Error(w, "invalid fecha", http.StatusBadRequest)
		return
	}

	draft, err := h.booking.StageSelection(r.Context(), StageSelectionRequest{
		VetID:      body.VetID,
		Date:       date,
		StartBlock: body.StartBlock,
		PatientID:  body.PatientID,
		ServiceID:  body.ServiceID,
	})
	if err != nil {
		h.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

// GetSelection handles GET /agenda/seleccion/{draftID}.
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	draft, err := h.booking.drafts.Get(r.Context(), chi.URLParam(r, "draftID"))
	if errors.Is(err, ErrDraftNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("draft lookup failed", "error", err)
		http.Error(w, "failed to load selection", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// DeleteSelection handles DELETE /agenda/seleccion/{draftID}.
func (h *Handler) DeleteSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.booking.drafts.Delete(r.Context(), chi.URLParam(r, "draftID")); err != nil {
		h.logger.Error("draft delete failed", "error", err)
		http.Error(w, "failed to delete selection", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bookBody struct {
	DraftID    string `json:"draft_id"`
	PacienteID string `json:"paciente_id"`
	ServicioID string `json:"servicio_id"`
	VetID      string `json:"veterinario_id"`
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"hora_inicio"`
	Motivo     string `json:"motivo"`
	Notas      string `json:"notas"`
	Tipo       string `json:"tipo"`
	Estado     string `json:"estado"`
}

// Book handles POST /agenda/citas/agendar-por-bloques. With a draft_id the
// staged draft is confirmed; otherwise the body books directly.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var body bookBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid request body"})
		return
	}

	var appt *appointments.Appointment
	var err error
	if body.DraftID != "" {
		appt, err = h.booking.Confirm(r.Context(), ConfirmRequest{
			DraftID: body.DraftID,
			Motivo:  body.Motivo,
			Notas:   body.Notas,
		})
	} else {
		var date time.Time
		date, err = time.ParseInLocation("2006-01-02", body.Fecha, h.location)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid fecha"})
			return
		}
		appt, err = h.booking.Book(r.Context(), DirectBookingRequest{
			PatientID:  body.PacienteID,
			ServiceID:  body.ServicioID,
			VetID:      body.VetID,
			Date:       date,
			HoraInicio: body.HoraInicio,
			Motivo:     body.Motivo,
			Notas:      body.Notas,
			Tipo:       body.Tipo,
			Estado:     body.Estado,
		})
	}
	if err != nil {
		status := flowErrorStatus(err)
		writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
		return
	}

	h.logger.Info("appointment booked",
		"cita_id", appt.ID, "veterinario_id", appt.VetID, "fecha", appt.Fecha,
		"bloque_inicio", appt.StartBlock, "bloque_fin", appt.EndBlock)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "cita": appt})
}

// GetAppointment handles GET /agenda/citas/{citaID}, the deep-link target.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.booking.Get(r.Context(), chi.URLParam(r, "citaID"))
	if errors.Is(err, appointments.ErrNotFound) {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("appointment lookup failed", "error", err)
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Start handles POST /agenda/citas/iniciar/{citaID}.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.booking.Start)
}

// Complete handles POST /agenda/citas/completar/{citaID}.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.booking.Complete)
}

// Cancel handles POST /agenda/citas/cancelar/{citaID}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.booking.Cancel)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, citaID, actor string) (*appointments.Appointment, error)) {
	citaID := chi.URLParam(r, "citaID")
	// The admin token subject identifies the actor when the route runs behind
	// AdminJWT; the X-Actor header covers the reception desk UI.
	actor := middleware.AdminActor(r.Context())
	if actor == "" {
		actor = r.Header.Get("X-Actor")
	}
	appt, err := fn(r.Context(), citaID, actor)
	if errors.Is(err, appointments.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "appointment not found"})
		return
	}
	if errors.Is(err, appointments.ErrInvalidTransition) {
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("estado transition failed", "cita_id", citaID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "transition failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "estado": appt.Estado})
}

func (h *Handler) writeFlowError(w http.ResponseWriter, err error) {
	status := flowErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("booking flow failed", "error", err)
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func flowErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrServiceNotChosen),
		errors.Is(err, ErrPatientNotChosen),
		errors.Is(err, ErrMissingMotivo),
		errors.Is(err, ErrDateNotSelectable):
		return http.StatusBadRequest
	case errors.Is(err, ErrSpanUnavailable),
		errors.Is(err, appointments.ErrBlocksTaken):
		return http.StatusConflict
	case errors.Is(err, ErrDraftNotFound),
		errors.Is(err, staff.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, appointments.ErrMissingReference),
		errors.Is(err, appointments.ErrMissingMotivo),
		errors.Is(err, appointments.ErrInvalidSpan):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
