package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sumire/receiptly/internal/config"
	"github.com/sumire/receiptly/internal/database"
	"github.com/sumire/receiptly/internal/handler"
	"github.com/sumire/receiptly/internal/notify"
	"github.com/sumire/receiptly/internal/repository"
	"github.com/sumire/receiptly/internal/service"
	"github.com/sumire/receiptly/internal/ticker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations completed")

	prefRepo := repository.NewPreferenceRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	channels := notify.Channels{}
	if email := notify.NewEmailChannel(cfg.ResendAPIKey, cfg.EmailFrom); email != nil {
		channels.Add(email)
		slog.Info("email channel configured")
	} else {
		slog.Warn("email channel not configured, email sends will be recorded as failed")
	}
	if sms := notify.NewSMSChannel(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber); sms != nil {
		channels.Add(sms)
		slog.Info("sms channel configured")
	} else {
		slog.Warn("sms channel not configured, sms sends will be recorded as failed")
	}

	engine := service.NewEngine(prefRepo, receiptRepo, historyRepo, channels)
	scheduler := service.NewScheduler(receiptRepo, notificationRepo)
	processor := service.NewProcessor(notificationRepo, channels)
	preferences := service.NewPreferences(prefRepo)

	notificationHandler := handler.NewNotificationHandler(engine, scheduler, processor, notificationRepo)
	preferenceHandler := handler.NewPreferenceHandler(preferences)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = handler.NewAppValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(handler.RequestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	internal := e.Group("/internal/notifications", handler.InternalAuth(cfg.InternalToken))
	internal.POST("/run", notificationHandler.Run)
	internal.POST("/process", notificationHandler.Process)

	api := e.Group("/api/v1", handler.JWTAuth(cfg.JWTSecret))
	api.POST("/notifications/schedule", notificationHandler.Schedule)
	api.GET("/notifications/upcoming", notificationHandler.Upcoming)
	api.GET("/preferences", preferenceHandler.Get)
	api.PUT("/preferences", preferenceHandler.Update)

	if cfg.TickerEnabled {
		t := ticker.New(engine, processor, cfg.ProcessInterval)
		go t.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
