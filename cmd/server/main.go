package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dukerupert/advisor/internal"
	"github.com/dukerupert/advisor/internal/action"
	"github.com/dukerupert/advisor/internal/catalog"
	"github.com/dukerupert/advisor/internal/email"
	"github.com/dukerupert/advisor/internal/events"
	"github.com/dukerupert/advisor/internal/handler"
	"github.com/dukerupert/advisor/internal/middleware"
	"github.com/dukerupert/advisor/internal/router"
	"github.com/dukerupert/advisor/internal/routes"
	"github.com/dukerupert/advisor/internal/telemetry"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// ==========================================================================
	// Initialize components
	// ==========================================================================

	store := catalog.NewStore(cfg.Catalog.Path, logger)
	if err := store.Check(ctx); err != nil {
		// Lookups degrade to "not found" replies; the server still starts.
		logger.Warn("Course catalog is not usable", "path", cfg.Catalog.Path, "error", err)
	}

	credential := cfg.Mail.Credential()
	sender := email.NewSMTPSender(&email.SMTPConfig{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		Credential: credential,
		FromName:   cfg.Mail.FromName,
		Timeout:    cfg.Mail.Timeout,
	}, logger)
	emailService := email.NewService(sender, email.NewRenderer(nil, email.DefaultSignature), cfg.Mail.FromName, logger)

	publisher := newPublisher(cfg.NATS, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", "error", err)
		}
	}()

	actionMetrics := telemetry.NewActionMetrics("advisor", prometheus.DefaultRegisterer)

	registry := action.NewRegistry(actionMetrics, logger,
		action.NewCourseInfoAction(store, actionMetrics, logger),
		action.NewStudyPlanAction(store, actionMetrics, logger),
		action.NewNotificationAction(emailService, credential, publisher, actionMetrics, logger),
	)
	logger.Info("Actions registered", "actions", registry.Names())

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("advisor", nil)

	// Configure rate limiting
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Stop()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithClientIP(),
		middleware.WithRequestLogger(logger),
		telemetry.SentryMiddleware(),
		metrics.Middleware,
		router.Logger(logger),
	)

	routes.RegisterActionServerRoutes(r, routes.ActionServerDeps{
		Handler:        handler.NewWebhookHandler(registry, logger),
		Metrics:        metrics.Handler(),
		RateLimiter:    rateLimiter,
		MaxBodySize:    middleware.DefaultMaxBodySize,
		RequestTimeout: cfg.RequestTimeout,
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting action server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down action server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// newPublisher connects to NATS when a URL is configured.
// A failed connection falls back to discarding events.
func newPublisher(cfg internal.NATSConfig, logger *slog.Logger) events.Publisher {
	if cfg.URL == "" {
		return events.NoopPublisher{}
	}
	p, err := events.NewNATSPublisher(cfg.URL, cfg.Subject, logger)
	if err != nil {
		logger.Warn("NATS unavailable, notification events disabled", "url", cfg.URL, "error", err)
		return events.NoopPublisher{}
	}
	logger.Info("Publishing notification events", "subject", cfg.Subject)
	return p
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
