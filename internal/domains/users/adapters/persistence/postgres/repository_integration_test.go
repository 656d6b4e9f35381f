//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
	"github.com/Apurer/spottythings-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/spottythings-api/internal/platform/postgres"
)

func setupUsersPostgresContainer(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("spottythings_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, migrations.Run(db))
	return db
}

func newTestUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, "prova123!")
	require.NoError(t, err)
	require.NoError(t, user.UpdateProfile(domain.Profile{
		Name:           "Mario",
		Surname:        "Rossi",
		BirthDate:      time.Date(2002, 2, 17, 0, 0, 0, 0, time.UTC),
		Address:        "via Roma 12, Povo, Trento",
		Email:          username + "@example.com",
		PaymentMethods: []string{"utentediprovapagamenti@gmail.com"},
	}))
	return user
}

func TestRepository_CreateAndGetByUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := NewRepository(setupUsersPostgresContainer(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestUser(t, "utentediprova"))
	require.NoError(t, err)
	assert.Equal(t, "utentediprova", created.Username)

	fetched, err := repo.GetByUsername(ctx, "utentediprova")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, []string{"utentediprovapagamenti@gmail.com"}, fetched.PaymentMethods)
	assert.Equal(t, "2002-02-17", fetched.BirthDate.Format(domain.BirthDateLayout))
	assert.True(t, fetched.CheckPassword("prova123!"))

	_, err = repo.Create(ctx, newTestUser(t, "utentediprova"))
	assert.ErrorIs(t, err, ports.ErrDuplicateUsername)
}

func TestRepository_SaveUpdatesPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := NewRepository(setupUsersPostgresContainer(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, newTestUser(t, "mario"))
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("nuova456!"))

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.True(t, saved.CheckPassword("nuova456!"))
	assert.False(t, saved.CheckPassword("prova123!"))
}

func TestRepository_ListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := NewRepository(setupUsersPostgresContainer(t))
	ctx := context.Background()

	for _, username := range []string{"anna", "bruno", "carla"} {
		_, err := repo.Save(ctx, newTestUser(t, username))
		require.NoError(t, err)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	require.NoError(t, repo.Delete(ctx, "bruno"))
	_, err = repo.GetByUsername(ctx, "bruno")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "bruno"), ports.ErrNotFound)
}

func TestRevocationStore_AgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	store := NewRevocationStore(setupUsersPostgresContainer(t))
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "live", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "stale", time.Now().Add(-time.Hour)))

	revoked, err := store.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
