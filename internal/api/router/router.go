// Package router assembles the HTTP surface of the agenda service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vetlink-cl/agenda-platform/internal/agenda"
	"github.com/vetlink-cl/agenda-platform/internal/catalog"
	"github.com/vetlink-cl/agenda-platform/internal/holidays"
	httpmiddleware "github.com/vetlink-cl/agenda-platform/internal/http/middleware"
	"github.com/vetlink-cl/agenda-platform/internal/patients"
	"github.com/vetlink-cl/agenda-platform/internal/staff"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	AgendaHandler   *agenda.Handler
	HolidaysHandler *holidays.Handler
	PatientsHandler *patients.Handler
	StaffHandler    *staff.Handler
	CatalogHandler  *catalog.Handler
	LiveHandler     http.Handler
	MetricsHandler  http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.HolidaysHandler != nil {
		r.Get("/feriados/{year}", cfg.HolidaysHandler.ByYear)
	}

	if cfg.AgendaHandler != nil {
		r.Route("/agenda", func(a chi.Router) {
			a.Get("/bloques/{vetID}/{year}/{month}/{day}", cfg.AgendaHandler.Blocks)
			a.Get("/grilla/{year}/{month}/{day}", cfg.AgendaHandler.Grid)

			a.Post("/seleccion", cfg.AgendaHandler.StageSelection)
			a.Get("/seleccion/{draftID}", cfg.AgendaHandler.GetSelection)
			a.Delete("/seleccion/{draftID}", cfg.AgendaHandler.DeleteSelection)

			a.Post("/citas/agendar-por-bloques", cfg.AgendaHandler.Book)
			a.Post("/citas/iniciar/{citaID}", cfg.AgendaHandler.Start)
			a.Post("/citas/completar/{citaID}", cfg.AgendaHandler.Complete)
			a.Post("/citas/cancelar/{citaID}", cfg.AgendaHandler.Cancel)
			a.Get("/citas/{citaID}", cfg.AgendaHandler.GetAppointment)

			if cfg.LiveHandler != nil {
				a.Handle("/live", cfg.LiveHandler)
			}
		})
	}

	if cfg.PatientsHandler != nil {
		r.Route("/pacientes", func(p chi.Router) {
			p.Post("/", cfg.PatientsHandler.Create)
			p.Get("/", cfg.PatientsHandler.List)
			p.Get("/{patientID}", cfg.PatientsHandler.Get)
		})
	}

	if cfg.StaffHandler != nil {
		r.Get("/veterinarios", cfg.StaffHandler.List)
		r.Get("/veterinarios/{vetID}", cfg.StaffHandler.Get)
	}
	if cfg.CatalogHandler != nil {
		r.Get("/servicios", cfg.CatalogHandler.List)
		r.Get("/servicios/{serviceID}", cfg.CatalogHandler.Get)
	}

	// Staff and catalog mutations are admin-only.
	if cfg.AdminAuthSecret != "" && (cfg.StaffHandler != nil || cfg.CatalogHandler != nil) {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.StaffHandler != nil {
				admin.Post("/veterinarios", cfg.StaffHandler.Create)
				admin.Put("/veterinarios/{vetID}/horario", cfg.StaffHandler.SetHours)
			}
			if cfg.CatalogHandler != nil {
				admin.Post("/servicios", cfg.CatalogHandler.Create)
			}
		})
	}

	return r
}
