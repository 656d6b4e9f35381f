package ports

import (
	"context"
	"errors"

	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Repository persists users keyed by username.
type Repository interface {
	// Create inserts a new user and fails with ErrDuplicateUsername when the username exists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Save inserts or updates a user keyed by username.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*domain.User, error)
}
