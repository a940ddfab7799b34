package main

import (
	"context"
	"log"
	"time"

	"dentalclinic/internal/config"
	"dentalclinic/internal/database"
	"dentalclinic/internal/modules/notification"
	"dentalclinic/internal/pkg/logger"
	"dentalclinic/internal/repository"

	"go.uber.org/zap"
)

// One-shot purge of read notifications past NOTIFY_RETENTION_DAYS, for cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cleanup := notification.NewCleanupService(
		repository.NewNotificationRepository(db),
		cfg.Notifications.RetentionDays,
		cfg.Notifications.CleanupInterval,
		lg,
	)
	if _, err := cleanup.Run(ctx); err != nil {
		lg.Fatal("cleanup failed", zap.Error(err))
	}
}
