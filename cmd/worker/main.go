package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/spottythings-api/internal/app/api"
	userworkflows "github.com/Apurer/spottythings-api/internal/domains/users/adapters/workflows"
	platformobservability "github.com/Apurer/spottythings-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/spottythings-api/internal/platform/temporal"
	useractivities "github.com/Apurer/spottythings-api/internal/platform/temporal/activities/users"
	"github.com/Apurer/spottythings-api/internal/platform/temporal/workflows/passwordreset"
)

func main() {
	_ = godotenv.Load()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	const serviceName = "spottythings-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.Settings{
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	users, cleanupUsers, err := api.BuildUserStack(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build users service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupUsers()
	mail, err := api.BuildMailService(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build mail service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:   cfg.Temporal.Address,
		Namespace: cfg.Temporal.Namespace,
	}, logger, instruments.Tracer("temporal-worker"))
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	if !users.Persistent {
		logger.Warn("worker user repository is in memory, resets will not see users registered through the API")
	}
	userActs := useractivities.NewActivities(userworkflows.NewInlineResetWorkflows(users.Service, mail, cfg.Start))

	w := worker.New(temporalClient, passwordreset.TaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(passwordreset.Workflow, workflow.RegisterOptions{Name: passwordreset.WorkflowName})
	w.RegisterActivityWithOptions(userActs.SendTemporaryPassword, activity.RegisterOptions{Name: useractivities.SendTemporaryPasswordActivityName})

	logger.Info("worker listening", slog.String("taskQueue", passwordreset.TaskQueue), slog.String("namespace", cfg.Temporal.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
