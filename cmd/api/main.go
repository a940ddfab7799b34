package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dentalclinic/internal/config"
	"dentalclinic/internal/database"
	"dentalclinic/internal/modules/notification"
	jwtsvc "dentalclinic/internal/pkg/jwt"
	"dentalclinic/internal/pkg/logger"
	"dentalclinic/internal/pkg/redis"
	"dentalclinic/internal/pkg/sms"
	"dentalclinic/internal/repository"
	"dentalclinic/internal/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		lg.Fatal("migrate failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, lg)
		if err != nil {
			lg.Warn("redis unavailable, using in-memory rate limiting", zap.Error(err))
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	var smsSender sms.Sender
	if cfg.SMS.Enabled {
		smsSender, err = sms.NewSNSSender(ctx, cfg.SMS.Region)
		if err != nil {
			lg.Warn("sms alerts disabled", zap.Error(err))
		}
	}

	hub := notification.NewHub(lg.Named("hub"))
	defer hub.Close()

	if cfg.Notifications.CleanupEnabled {
		cleanup := notification.NewCleanupService(
			repository.NewNotificationRepository(db),
			cfg.Notifications.RetentionDays,
			cfg.Notifications.CleanupInterval,
			lg.Named("cleanup"),
		)
		stopCleanup := cleanup.Schedule(ctx)
		defer stopCleanup()
	}

	r := server.NewRouter(server.Deps{
		DB:                 db,
		JWT:                jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Logger:             lg,
		Location:           cfg.Location(),
		Hub:                hub,
		Redis:              rdb,
		SMS:                smsSender,
		SMSAlertPhone:      cfg.SMS.AlertPhone,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("api listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	// websocket connections are hijacked and ignored by Shutdown
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}
