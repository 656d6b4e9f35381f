package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	userpostgres "github.com/Apurer/spottythings-api/internal/domains/users/adapters/persistence/postgres"
	userworkflows "github.com/Apurer/spottythings-api/internal/domains/users/adapters/workflows"
	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
	platformobservability "github.com/Apurer/spottythings-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/spottythings-api/internal/platform/temporal"
)

const serviceName = "spottythings-api"

// Run boots the HTTP API and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.Settings{
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	users, cleanupUsers, err := BuildUserStack(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanupUsers()
	mail, err := BuildMailService(ctx, cfg, instruments)
	if err != nil {
		return err
	}

	inline := userworkflows.NewInlineResetWorkflows(users.Service, mail, cfg.Start)
	resets := chooseResets(cfg, users.Persistent, inline, func() (userports.ResetOrchestrator, error) {
		return dialTemporalResets(cfg, instruments)
	}, logger)
	if closer, ok := resets.(interface{ Close() }); ok {
		defer closer.Close()
	}

	if interval := cfg.SessionPurgeInterval(); interval > 0 && users.Purger != nil {
		go runRevocationPurge(ctx, users.Purger, interval, logger)
	}

	router := NewRouter(RouterDeps{
		Users:       users.Service,
		Resets:      resets,
		Mail:        mail,
		Logger:      logger,
		RateLimit:   cfg.RateLimit,
		ServiceName: serviceName,
	})
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("SpottyThings API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("SpottyThings API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down SpottyThings API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// chooseResets picks Temporal only when it is enabled, reachable and the worker can see the same users.
func chooseResets(cfg Config, persistent bool, inline userports.ResetOrchestrator, dial func() (userports.ResetOrchestrator, error), logger *slog.Logger) userports.ResetOrchestrator {
	switch {
	case cfg.Temporal.Disabled:
		logger.Info("Temporal disabled, running password resets inline")
		return inline
	case !persistent:
		logger.Info("user repository is in memory, running password resets inline")
		return inline
	}
	resets, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running password resets inline", slog.String("error", err.Error()))
		return inline
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.Temporal.Namespace))
	return resets
}

func dialTemporalResets(cfg Config, instruments *platformobservability.Instruments) (userports.ResetOrchestrator, error) {
	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:   cfg.Temporal.Address,
		Namespace: cfg.Temporal.Namespace,
	}, instruments.Logger, instruments.Tracer("temporal-client"))
	if err != nil {
		return nil, err
	}
	return userworkflows.NewTemporalResetWorkflows(temporalClient), nil
}

func runRevocationPurge(ctx context.Context, store *userpostgres.RevocationStore, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("revoked token purge failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("revoked token purge completed", slog.Int64("purged", purged))
		}
	}
}
