package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"

	"github.com/vetlink-cl/agenda-platform/internal/agenda"
	appconfig "github.com/vetlink-cl/agenda-platform/internal/config"
	"github.com/vetlink-cl/agenda-platform/internal/notify"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildDraftStore wires the Redis-backed confirmation draft store when Redis
// is available.
func BuildDraftStore(redisClient *redis.Client, cfg *appconfig.Config) *agenda.DraftStore {
	if redisClient == nil || cfg == nil {
		return nil
	}
	return agenda.NewDraftStore(redisClient, cfg.DraftTTL)
}

// BuildEmailSender selects the confirmation email provider from configuration.
// Unknown or empty providers fall back to the stub sender so bookings never
// fail on notification wiring.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.EmailProvider)) {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" || cfg.SendGridFromEmail == "" {
			logger.Warn("sendgrid selected but not configured, using stub sender")
			return notify.NewStubEmailSender(logger)
		}
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		if cfg.SESFromEmail == "" {
			logger.Warn("ses selected but not configured, using stub sender")
			return notify.NewStubEmailSender(logger)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}
