package ports

import "context"

// ResetOrchestrator runs the password reset flow: issue a temporary password and mail it.
type ResetOrchestrator interface {
	ResetPassword(ctx context.Context, username string) error
}
