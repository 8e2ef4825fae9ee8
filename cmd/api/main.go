package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"maildesk/internal/auth"
	"maildesk/internal/config"
	"maildesk/internal/db"
	"maildesk/internal/db/migrations"
	"maildesk/internal/repository"
	"maildesk/internal/routes"
	"maildesk/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL); err != nil {
		logger.Error("failed to ensure database exists", "error", err)
		os.Exit(1)
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := migrations.RunMigrations(database.DB); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessions, err := auth.NewSessionIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL)
	if err != nil {
		logger.Error("failed to build session issuer", "error", err)
		os.Exit(1)
	}
	sessions.WithLeeway(cfg.SessionLeeway)

	resets := auth.NewResetStore(cfg.ResetTokenTTL)
	if cfg.ResetSweepInterval > 0 {
		resets.StartSweeper(cfg.ResetSweepInterval)
	}
	defer resets.Stop()

	var mailer auth.ResetLinkSender
	if cfg.SMTPHost != "" {
		mailer = &services.ResetMailer{
			Sender:   services.NewSMTPSender(cfg),
			LinkBase: cfg.ResetLinkBase,
			TTL:      cfg.ResetTokenTTL,
		}
	} else {
		logger.Warn("SMTP_HOST not set, reset emails disabled")
	}

	svc, err := auth.NewService(auth.ServiceDeps{
		Users:    repository.NewUserRepository(database.DB),
		Logins:   repository.NewLoginHistoryRepository(database.DB),
		Mailer:   mailer,
		Hasher:   auth.NewHasher(0),
		Sessions: sessions,
		Resets:   resets,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to build auth service", "error", err)
		os.Exit(1)
	}

	router := routes.SetupRoutes(database.DB, cfg, svc)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
