package ports

import (
	"context"

	"github.com/Apurer/spottythings-api/internal/domains/users/application/types"
	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	SignUp(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	UpdatePassword(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (types.Session, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (types.Claims, error)
	IssueTemporaryPassword(ctx context.Context, username string) (types.PasswordReset, error)
}
