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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/wearly/tryonbot/internal/config"
	"github.com/wearly/tryonbot/internal/handler"
	"github.com/wearly/tryonbot/internal/middleware"
	"github.com/wearly/tryonbot/internal/service"
	"github.com/wearly/tryonbot/internal/twilio"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load environment variables
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	sessionService := service.NewSessionService()
	mediaClient := twilio.NewMediaClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	fetcher := service.NewImageFetcher(mediaClient, cfg.ImageDir)
	tryOnService := service.NewTryOnService(cfg.TryOnBaseURL)
	conversationService := service.NewConversationService(sessionService, fetcher, tryOnService)

	// Initialize handler
	h := handler.New(handler.Deps{
		Conversation: conversationService,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		middleware.Recover(),
		middleware.Logging(),
	)
	h.Register(e)

	// Start idle session eviction goroutine
	go func() {
		ticker := time.NewTicker(config.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessionService.EvictIdle(cfg.SessionIdleTimeout); n > 0 {
					slog.Info("evicted idle sessions", "count", n, "remaining", sessionService.Len())
				}
			}
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped gracefully")
}
