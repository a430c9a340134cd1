package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetlink-cl/agenda-platform/cmd/mainconfig"
	"github.com/vetlink-cl/agenda-platform/internal/config"
	"github.com/vetlink-cl/agenda-platform/internal/events"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DatabaseURL == "" || cfg.EventsQueueURL == "" {
		logger.Error("events worker requires DATABASE_URL and EVENTS_QUEUE_URL")
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	store := events.NewOutboxStore(pool)
	handler := events.NewSQSHandler(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)

	deliverer := events.NewDeliverer(store, handler, logger).
		WithBatchSize(int32(cfg.OutboxBatchSize)).
		WithInterval(cfg.OutboxInterval)

	go deliverer.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("events worker shutting down")
	cancel()
	time.Sleep(2 * time.Second)
}
