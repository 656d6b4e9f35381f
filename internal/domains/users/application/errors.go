package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrAuthentication wraps credential and token failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrConflict signals the user already exists.
	ErrConflict = errors.New("user conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrUsernameTooLong),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrBirthDateInFuture),
		errors.Is(err, domain.ErrMissingPasswordHash):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrInvalidCredentials),
		errors.Is(err, ports.ErrInvalidToken),
		errors.Is(err, ports.ErrTokenRevoked):
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case errors.Is(err, ports.ErrDuplicateUsername):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
