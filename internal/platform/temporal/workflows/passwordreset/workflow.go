package passwordreset

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/spottythings-api/internal/platform/temporal/sequences"
)

const (
	// WorkflowName is the public identifier for registering the workflow.
	WorkflowName = "users.workflows.PasswordReset"
	// TaskQueue is the queue consumed by the password reset worker.
	TaskQueue = "PASSWORD_RESET"
)

// Input identifies the account being reset.
type Input struct {
	Username string
	TraceID  string
}

// Workflow replaces a user's password and mails the temporary one.
func Workflow(ctx workflow.Context, input Input) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("PasswordResetWorkflow started", withTraceID(input.TraceID, "username", input.Username)...)
	if err := sequences.RunPasswordResetSequence(ctx, input.Username); err != nil {
		logger.Error("PasswordResetWorkflow failed", withTraceID(input.TraceID, "username", input.Username, "error", err)...)
		return err
	}
	logger.Info("PasswordResetWorkflow completed", withTraceID(input.TraceID, "username", input.Username)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
