package users

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	maildomain "github.com/Apurer/spottythings-api/internal/domains/mail/domain"
	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

// SendTemporaryPasswordActivityName replaces the stored password with a random one and mails it.
const SendTemporaryPasswordActivityName = "users.activities.SendTemporaryPassword"

// Activities groups activities that operate on the users bounded context.
type Activities struct {
	resets userports.ResetOrchestrator
}

// NewActivities wraps the in-process reset steps. The temporary password is
// minted and mailed inside the activity so it never enters workflow history.
func NewActivities(resets userports.ResetOrchestrator) *Activities {
	return &Activities{resets: resets}
}

// SendTemporaryPassword issues and delivers a temporary password. Each attempt
// issues a fresh one, so only the most recent mail carries a valid password.
func (a *Activities) SendTemporaryPassword(ctx context.Context, username string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.resets == nil {
		logger.Error("password reset activity not initialized", "username", username)
		return errors.New("password reset activity not initialized")
	}
	logger.Info("SendTemporaryPassword activity started", "username", username)
	if err := a.resets.ResetPassword(ctx, username); err != nil {
		logger.Error("SendTemporaryPassword activity failed", "username", username, "error", err)
		switch {
		case errors.Is(err, userports.ErrNotFound):
			return temporal.NewNonRetryableApplicationError(err.Error(), "NotFound", err)
		case errors.Is(err, maildomain.ErrMissingRecipient), errors.Is(err, maildomain.ErrInvalidRecipient):
			return temporal.NewNonRetryableApplicationError(err.Error(), "InvalidRecipient", err)
		}
		return err
	}
	logger.Info("SendTemporaryPassword activity completed", "username", username)
	return nil
}
