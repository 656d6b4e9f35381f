package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/spottythings-api/internal/domains/users/adapters/tokens"
	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := f.users[user.Username]; ok {
		return nil, ports.ErrDuplicateUsername
	}
	return f.Save(ctx, user)
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	copy := *user
	f.users[user.Username] = &copy
	return &copy, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := f.users[username]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return ports.ErrNotFound
	}
	delete(f.users, username)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var list []*domain.User
	for _, u := range f.users {
		copy := *u
		list = append(list, &copy)
	}
	return list, nil
}

type fakeRevocationStore struct {
	revoked map[string]time.Time
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]time.Time{}}
}

func (f *fakeRevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	f.revoked[tokenID] = expiresAt
	return nil
}

func (f *fakeRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.revoked[tokenID]
	return ok, nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *fakeUserRepo, *fakeRevocationStore) {
	t.Helper()
	issuer, err := tokens.NewIssuer("test-secret")
	require.NoError(t, err)
	repo := newFakeUserRepo()
	revocations := newFakeRevocationStore()
	opts = append([]Option{WithRevocationStore(revocations)}, opts...)
	return NewService(repo, issuer, opts...), repo, revocations
}

func signUp(t *testing.T, svc *Service, username, password string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, password)
	require.NoError(t, err)
	require.NoError(t, user.UpdateProfile(domain.Profile{Email: "mailutentediprova@gmail.com"}))
	created, err := svc.SignUp(context.Background(), user)
	require.NoError(t, err)
	return created
}

func TestSignUpAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)

	created := signUp(t, svc, "utentediprova", "prova123!")
	require.Equal(t, "utentediprova", created.Username)
	require.NotEmpty(t, created.ID)

	session, err := svc.Login(context.Background(), "utentediprova", "prova123!")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, "utentediprova", session.Claims.ID)
}

func TestSignUp_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)
	signUp(t, svc, "mario", "prova123!")

	duplicate, err := domain.NewUser("mario", "prova123!")
	require.NoError(t, err)
	require.NoError(t, duplicate.UpdateProfile(domain.Profile{Email: "mario@example.com"}))
	_, err = svc.SignUp(context.Background(), duplicate)
	require.ErrorIs(t, err, ErrConflict)

	noEmail, err := domain.NewUser("luigi", "prova123!")
	require.NoError(t, err)
	_, err = svc.SignUp(context.Background(), noEmail)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyEmail)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	signUp(t, svc, "utentediprova", "prova123!")

	_, err := svc.Login(context.Background(), "utentenonesistente", "prova123!")
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "utentediprova", "passwordsbagliata123!")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, revocations := newTestService(t)
	signUp(t, svc, "mario", "prova123!")
	session, err := svc.Login(context.Background(), "mario", "prova123!")
	require.NoError(t, err)

	claims, err := svc.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)
	require.Equal(t, "mario", claims.Username)

	require.NoError(t, svc.Logout(context.Background(), session.Token))
	require.Contains(t, revocations.revoked, session.Claims.TokenID)

	_, err = svc.Authenticate(context.Background(), session.Token)
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, ports.ErrTokenRevoked)

	require.NoError(t, svc.Logout(context.Background(), "garbage"))
	require.Len(t, revocations.revoked, 1)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestUpdatePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	signUp(t, svc, "mario", "prova123!")

	_, err := svc.UpdatePassword(context.Background(), "mario", "nuova456!")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "mario", "prova123!")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "mario", "nuova456!")
	require.NoError(t, err)

	_, err = svc.UpdatePassword(context.Background(), "mario", "abc")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdatePassword(context.Background(), "ghost", "nuova456!")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestIssueTemporaryPassword(t *testing.T) {
	svc, _, _ := newTestService(t, WithPasswordGenerator(func() string { return "temporanea1" }))
	signUp(t, svc, "utentediprova", "prova123!")

	reset, err := svc.IssueTemporaryPassword(context.Background(), "utentediprova")
	require.NoError(t, err)
	assert.Equal(t, "temporanea1", reset.TemporaryPassword)
	assert.Equal(t, "mailutentediprova@gmail.com", reset.Email)

	_, err = svc.Login(context.Background(), "utentediprova", "prova123!")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "utentediprova", "temporanea1")
	require.NoError(t, err)

	_, err = svc.IssueTemporaryPassword(context.Background(), "utentenonesistente")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestGenerateTemporaryPassword(t *testing.T) {
	first := generateTemporaryPassword()
	require.Len(t, first, temporaryPasswordLength)
	require.NotEqual(t, first, generateTemporaryPassword())
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newTestService(t)
	signUp(t, svc, "mario", "prova123!")
	require.NoError(t, svc.Delete(context.Background(), "mario"))
	require.Empty(t, repo.users)
	require.ErrorIs(t, svc.Delete(context.Background(), "mario"), ports.ErrNotFound)
}
