package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vetlink-cl/agenda-platform/cmd/mainconfig"
	"github.com/vetlink-cl/agenda-platform/internal/agenda"
	"github.com/vetlink-cl/agenda-platform/internal/api/router"
	"github.com/vetlink-cl/agenda-platform/internal/app/bootstrap"
	"github.com/vetlink-cl/agenda-platform/internal/appointments"
	"github.com/vetlink-cl/agenda-platform/internal/catalog"
	appconfig "github.com/vetlink-cl/agenda-platform/internal/config"
	"github.com/vetlink-cl/agenda-platform/internal/events"
	"github.com/vetlink-cl/agenda-platform/internal/holidays"
	"github.com/vetlink-cl/agenda-platform/internal/live"
	"github.com/vetlink-cl/agenda-platform/internal/notify"
	"github.com/vetlink-cl/agenda-platform/internal/observability/metrics"
	"github.com/vetlink-cl/agenda-platform/internal/patients"
	"github.com/vetlink-cl/agenda-platform/internal/staff"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agenda-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open sql connection", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	drafts := bootstrap.BuildDraftStore(redisClient, cfg)
	if drafts == nil {
		logger.Error("redis is required for confirmation drafts", "addr", cfg.RedisAddr)
		os.Exit(1)
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Initialize repositories and services
	agendaMetrics := metrics.New(prometheus.DefaultRegisterer)
	calendar := holidays.NewCalendar(holidays.ForYears(time.Now().Year()-1, 4))

	staffRepo := staff.NewPostgresRepository(pool)
	patientsRepo := patients.NewPostgresRepository(pool)
	catalogRepo := catalog.NewPostgresRepository(pool)
	apptRepo := appointments.NewPostgresRepository(pool)
	history := appointments.NewHistoryStore(sqlDB)

	schedules := agenda.NewScheduleService(staffRepo, apptRepo, calendar, redisClient, cfg.ScheduleCacheTTL, logger)
	loader := agenda.NewDayLoader(schedules, logger)

	hub := live.NewHub(agendaMetrics, logger)
	loader.OnRenderCompleted(hub.RenderCompleted)

	outbox := events.NewOutboxStore(pool)
	notifier := notify.NewService(bootstrap.BuildEmailSender(cfg, awsCfg, logger), cfg.ClinicName, logger)

	booking := agenda.NewBookingService(agenda.BookingServiceDeps{
		Schedules: schedules,
		Drafts:    drafts,
		Catalog:   catalogRepo,
		Patients:  patientsRepo,
		Appts:     apptRepo,
		History:   history,
		Calendar:  calendar,
		Outbox:    outbox,
		Notifier:  notifier,
		Live:      hub,
		Metrics:   agendaMetrics,
		Logger:    logger,
	})

	// Initialize handlers
	agendaHandler := agenda.NewHandler(agenda.HandlerDeps{
		Booking:    booking,
		Schedules:  schedules,
		Loader:     loader,
		Staff:      staffRepo,
		Calendar:   calendar,
		Metrics:    agendaMetrics,
		WindowSize: cfg.StaffWindowSize,
		Location:   cfg.Location(),
		Logger:     logger,
	})

	// Setup router
	routerCfg := &router.Config{
		Logger:          logger,
		AgendaHandler:   agendaHandler,
		HolidaysHandler: holidays.NewHandler(),
		PatientsHandler: patients.NewHandler(patientsRepo, logger),
		StaffHandler:    staff.NewHandler(staffRepo, logger),
		CatalogHandler:  catalog.NewHandler(catalogRepo, logger),
		LiveHandler:     hub,
		MetricsHandler:  promhttp.Handler(),

		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
