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

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/scheduling-event-manager-go/config"
	"github.com/AntonStoeckl/scheduling-event-manager-go/httpendpoint"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/oteladapters"
)

const (
	serviceVersion = "1.0.0"

	instrumentationName = "scheduleevent-server"

	startupTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("scheduleevent-server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log, os.Stdout)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	so := storeOptions{logger: logger}

	if cfg.Observability.Enabled {
		providers, obsErr := config.NewObservabilityProviders(ctx, cfg.Observability, serviceVersion)
		if obsErr != nil {
			return fmt.Errorf("create observability providers: %w", obsErr)
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()

			if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
				logger.Error("shutting down observability providers failed", "error", shutdownErr.Error())
			}
		}()

		so.contextualLogger = oteladapters.NewSlogBridgeLogger(instrumentationName)
		so.metricsCollector = oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
		so.tracingCollector = oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))

		logger.Info("observability enabled", "otlp_endpoint", cfg.Observability.OTLPEndpoint)
	}

	startupCtx, cancelStartup := context.WithTimeout(ctx, startupTimeout)
	defer cancelStartup()

	store, closeStore, err := openStore(startupCtx, cfg.Store, so)
	if err != nil {
		return err
	}
	defer closeStore()

	if err = prepareStore(startupCtx, cfg.Store, store, logger); err != nil {
		return err
	}

	handler, err := httpendpoint.NewHandler(
		store,
		logger,
		httpendpoint.WithCORSAllowedOrigins(cfg.HTTP.CORSAllowedOrigins),
	)
	if err != nil {
		return fmt.Errorf("create http handler: %w", err)
	}

	return serve(ctx, cfg.HTTP, handler.HTTPHandler(), logger)
}

// prepareStore migrates the schema and seeds the sample events, as configured.
func prepareStore(ctx context.Context, sc config.StoreConfig, store migratableStore, logger *slog.Logger) error {
	if sc.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	if sc.SeedSampleData {
		created, err := scheduleevent.SeedSampleEventsIfEmpty(ctx, store, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}

		logger.Info("sample schedule events seeded", "created", created)
	}

	return nil
}

// serve runs the HTTP server until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, hc config.HTTPConfig, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              hc.Addr,
		Handler:           handler,
		ReadTimeout:       hc.ReadTimeout,
		ReadHeaderTimeout: hc.ReadTimeout,
		WriteTimeout:      hc.WriteTimeout,
		IdleTimeout:       hc.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", hc.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}

		return nil

	case <-ctx.Done():
		logger.Info("shutdown signal received, draining http server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), hc.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("http server stopped")

	return nil
}
