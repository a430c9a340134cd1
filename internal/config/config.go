package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string
	ClinicName     string
	ClinicTimezone string

	// Redis (confirmation drafts + day-schedule cache)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	DraftTTL      time.Duration

	// Agenda behaviour
	StaffWindowSize  int
	ScheduleCacheTTL time.Duration

	// Notifications
	EmailProvider     string // "sendgrid", "ses" or "" (disabled)
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string

	// Events
	AWSRegion           string
	AWSEndpointOverride string
	EventsQueueURL      string
	OutboxBatchSize     int
	OutboxInterval      time.Duration

	// HTTP
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
	AdminJWTSecret     string
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		ClinicName:     getEnv("CLINIC_NAME", "Clínica Veterinaria"),
		ClinicTimezone: getEnv("CLINIC_TIMEZONE", "America/Santiago"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvBool("REDIS_TLS", false),
		DraftTTL:      getEnvDuration("DRAFT_TTL", 10*time.Minute),

		StaffWindowSize:  getEnvInt("STAFF_WINDOW_SIZE", 2),
		ScheduleCacheTTL: getEnvDuration("SCHEDULE_CACHE_TTL", 30*time.Second),

		EmailProvider:     getEnv("EMAIL_PROVIDER", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", ""),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		EventsQueueURL:      getEnv("EVENTS_QUEUE_URL", ""),
		OutboxBatchSize:     getEnvInt("OUTBOX_BATCH_SIZE", 25),
		OutboxInterval:      getEnvDuration("OUTBOX_INTERVAL", 2*time.Second),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
	}
}

// Location resolves the configured clinic timezone, falling back to UTC when
// the zone cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
