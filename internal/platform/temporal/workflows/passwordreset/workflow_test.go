package passwordreset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	useractivities "github.com/Apurer/spottythings-api/internal/platform/temporal/activities/users"
)

func newTestEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})
	env.RegisterActivityWithOptions((&useractivities.Activities{}).SendTemporaryPassword, activity.RegisterOptions{Name: useractivities.SendTemporaryPasswordActivityName})
	return env
}

func TestWorkflow_SendsTemporaryPassword(t *testing.T) {
	env := newTestEnv(t)
	var got string
	env.OnActivity(useractivities.SendTemporaryPasswordActivityName, mock.Anything, "mario").Return(func(_ context.Context, username string) error {
		got = username
		return nil
	}).Once()

	env.ExecuteWorkflow(WorkflowName, Input{Username: "mario", TraceID: "abc"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Equal(t, "mario", got)
	env.AssertExpectations(t)
}

func TestWorkflow_UnknownUserStops(t *testing.T) {
	env := newTestEnv(t)
	notFound := temporal.NewNonRetryableApplicationError("user not found", "NotFound", nil)
	env.OnActivity(useractivities.SendTemporaryPasswordActivityName, mock.Anything, "ghost").Return(notFound).Once()

	env.ExecuteWorkflow(WorkflowName, Input{Username: "ghost"})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NotFound", appErr.Type())
	env.AssertExpectations(t)
}
