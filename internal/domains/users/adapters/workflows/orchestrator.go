package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	mailports "github.com/Apurer/spottythings-api/internal/domains/mail/ports"
	usertypes "github.com/Apurer/spottythings-api/internal/domains/users/application/types"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
	"github.com/Apurer/spottythings-api/internal/platform/temporal/workflows/passwordreset"
)

var (
	_ ports.ResetOrchestrator = (*TemporalResetWorkflows)(nil)
	_ ports.ResetOrchestrator = (*InlineResetWorkflows)(nil)
)

// DefaultResetWait bounds how long a request waits for the reset workflow.
const DefaultResetWait = 45 * time.Second

// TemporalResetWorkflows runs password resets on a Temporal cluster.
type TemporalResetWorkflows struct {
	client    client.Client
	taskQueue string
	wait      time.Duration
}

type TemporalOption func(*TemporalResetWorkflows)

// WithResetWait overrides how long ResetPassword waits for the workflow result.
func WithResetWait(wait time.Duration) TemporalOption {
	return func(o *TemporalResetWorkflows) {
		if wait > 0 {
			o.wait = wait
		}
	}
}

func NewTemporalResetWorkflows(c client.Client, opts ...TemporalOption) *TemporalResetWorkflows {
	o := &TemporalResetWorkflows{client: c, taskQueue: passwordreset.TaskQueue, wait: DefaultResetWait}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// ResetPassword starts the reset workflow and waits for it to finish.
func (o *TemporalResetWorkflows) ResetPassword(ctx context.Context, username string) error {
	if o == nil || o.client == nil {
		return errors.New("temporal reset workflows not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, o.wait)
	defer cancel()
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("password-reset-%s-%s", username, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		passwordreset.WorkflowName,
		passwordreset.Input{Username: username, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId).Get(ctx, nil)
		}
		return err
	}
	return run.Get(ctx, nil)
}

// Close releases the Temporal client.
func (o *TemporalResetWorkflows) Close() {
	if o != nil && o.client != nil {
		o.client.Close()
	}
}

// InlineResetWorkflows runs the reset steps in-process. The reset activity of the
// Temporal worker delegates to it as well.
type InlineResetWorkflows struct {
	users    ports.Service
	mail     mailports.Service
	loginURL string
}

func NewInlineResetWorkflows(users ports.Service, mail mailports.Service, loginURL string) *InlineResetWorkflows {
	return &InlineResetWorkflows{users: users, mail: mail, loginURL: loginURL}
}

func (o *InlineResetWorkflows) ResetPassword(ctx context.Context, username string) error {
	if o == nil || o.users == nil || o.mail == nil {
		return errors.New("inline reset workflows not configured")
	}
	reset, err := o.users.IssueTemporaryPassword(ctx, username)
	if err != nil {
		return err
	}
	subject, body := usertypes.ResetMail(reset, o.loginURL)
	_, err = o.mail.Send(ctx, reset.Email, subject, body, mailports.WithoutArchive())
	return err
}

func workflowTraceComponent(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() && spanCtx.TraceID().IsValid() {
		return spanCtx.TraceID().String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
