package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/spottythings-api/internal/domains/users/application/types"
	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

const temporaryPasswordLength = 12

// Service exposes user bounded context use cases.
type Service struct {
	repo        ports.Repository
	tokens      ports.TokenIssuer
	revocations ports.RevocationStore
	now         func() time.Time
	newID       func() string
	newPassword func() string
}

// Option customises the service.
type Option func(*Service)

// WithRevocationStore sets where logged-out tokens are remembered.
func WithRevocationStore(store ports.RevocationStore) Option {
	return func(s *Service) {
		if store != nil {
			s.revocations = store
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPasswordGenerator overrides how temporary passwords are produced.
func WithPasswordGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newPassword = gen
		}
	}
}

func NewService(repo ports.Repository, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		tokens:      tokens,
		revocations: ports.NoopRevocationStore,
		now:         time.Now,
		newID:       uuid.NewString,
		newPassword: generateTemporaryPassword,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) SignUp(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, mapError(err)
	}
	if user.ID == "" {
		user.ID = s.newID()
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

func (s *Service) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(username))
}

func (s *Service) UpdatePassword(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, user)
}

func (s *Service) Login(ctx context.Context, username, password string) (types.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return types.Session{}, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return types.Session{}, mapError(ports.ErrInvalidCredentials)
	}
	if err != nil {
		return types.Session{}, err
	}
	if !user.CheckPassword(password) {
		return types.Session{}, mapError(ports.ErrInvalidCredentials)
	}
	return s.tokens.Issue(user.Username)
}

// Logout revokes the token until it expires. Tokens that do not parse are already unusable.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.Parse(strings.TrimSpace(rawToken))
	if err != nil {
		return nil
	}
	if !claims.ExpiresAt.After(s.now()) {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (types.Claims, error) {
	claims, err := s.tokens.Parse(strings.TrimSpace(rawToken))
	if err != nil {
		return types.Claims{}, mapError(err)
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return types.Claims{}, err
	}
	if revoked {
		return types.Claims{}, mapError(ports.ErrTokenRevoked)
	}
	return claims, nil
}

func (s *Service) IssueTemporaryPassword(ctx context.Context, username string) (types.PasswordReset, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return types.PasswordReset{}, err
	}
	temporary := s.newPassword()
	if err := user.SetPassword(temporary); err != nil {
		return types.PasswordReset{}, mapError(err)
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return types.PasswordReset{}, err
	}
	return types.PasswordReset{
		Username:          saved.Username,
		Email:             saved.Email,
		TemporaryPassword: temporary,
	}, nil
}

func generateTemporaryPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:temporaryPasswordLength]
}

var _ ports.Service = (*Service)(nil)
