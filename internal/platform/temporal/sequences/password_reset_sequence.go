package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	useractivities "github.com/Apurer/spottythings-api/internal/platform/temporal/activities/users"
)

// RunPasswordResetSequence issues a temporary password and mails it to the account owner.
// Only the username crosses the workflow boundary.
func RunPasswordResetSequence(ctx workflow.Context, username string) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("password reset sequence started", "username", username)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 20 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        5 * time.Second,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{"NotFound", "InvalidRecipient"},
		},
	}

	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), useractivities.SendTemporaryPasswordActivityName, username).Get(ctx, nil)
	if err != nil {
		logger.Error("password reset sequence failed", "username", username, "error", err)
		return err
	}
	logger.Info("password reset sequence completed", "username", username)
	return nil
}
