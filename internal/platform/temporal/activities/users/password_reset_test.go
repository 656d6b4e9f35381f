package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	mailmemory "github.com/Apurer/spottythings-api/internal/domains/mail/adapters/memory"
	mailapp "github.com/Apurer/spottythings-api/internal/domains/mail/application"
	usermemory "github.com/Apurer/spottythings-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/spottythings-api/internal/domains/users/adapters/tokens"
	userworkflows "github.com/Apurer/spottythings-api/internal/domains/users/adapters/workflows"
	userapp "github.com/Apurer/spottythings-api/internal/domains/users/application"
	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
	useractivities "github.com/Apurer/spottythings-api/internal/platform/temporal/activities/users"
)

type resetFixture struct {
	activities *useractivities.Activities
	outbox     *mailmemory.Outbox
	archive    *mailmemory.Outbox
}

func newResetFixture(t *testing.T) resetFixture {
	t.Helper()
	issuer, err := tokens.NewIssuer("test-secret")
	require.NoError(t, err)
	users := userapp.NewService(usermemory.NewRepository(), issuer, userapp.WithPasswordGenerator(func() string { return "temp12345678" }))
	user, err := domain.NewUser("mario", "prova123!")
	require.NoError(t, err)
	require.NoError(t, user.UpdateProfile(domain.Profile{Email: "mario@example.com"}))
	_, err = users.SignUp(context.Background(), user)
	require.NoError(t, err)

	outbox := mailmemory.NewOutbox()
	archive := mailmemory.NewOutbox()
	mail := mailapp.NewService(outbox, mailapp.WithArchive(archive))
	resets := userworkflows.NewInlineResetWorkflows(users, mail, "http://localhost:8080")
	return resetFixture{activities: useractivities.NewActivities(resets), outbox: outbox, archive: archive}
}

func TestSendTemporaryPassword_MailsWithoutArchiving(t *testing.T) {
	fx := newResetFixture(t)
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivity(fx.activities.SendTemporaryPassword)

	_, err := env.ExecuteActivity(fx.activities.SendTemporaryPassword, "mario")
	require.NoError(t, err)

	msg, ok := fx.outbox.Last("mario@example.com")
	require.True(t, ok)
	assert.Contains(t, msg.Body, "temp12345678")
	assert.Empty(t, fx.archive.Messages())
}

func TestSendTemporaryPassword_UnknownUserIsNotRetryable(t *testing.T) {
	fx := newResetFixture(t)
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivity(fx.activities.SendTemporaryPassword)

	_, err := env.ExecuteActivity(fx.activities.SendTemporaryPassword, "ghost")
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NotFound", appErr.Type())
	assert.True(t, appErr.NonRetryable())
	assert.Empty(t, fx.outbox.Messages())
}
