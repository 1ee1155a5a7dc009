package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"kv-rentals/app"
	"kv-rentals/config"
	"kv-rentals/logging"
	"kv-rentals/telemetry"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload so .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			logrus.Infof(".env file not found at %s, using system environment variables", envPath)
		} else {
			logrus.Infof("Loaded environment variables from %s (overriding system variables)", envPath)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint)
	if err != nil {
		logrus.Fatalf("failed to initialize tracer provider: %v", err)
	}

	// Initialize application
	application, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(application.Handler, "kv-rentals"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":    server.Addr,
			"storage": cfg.StorageBackend,
			"backend": cfg.BackendURL,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Received shutdown signal, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error shutting down server")
	}
	application.Close()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error shutting down tracer provider")
	}
}
