package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockedStore(t *testing.T) (*RevocationStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	store := NewRevocationStore(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, mock
}

func TestRevocationStore_Revoke(t *testing.T) {
	store, mock := newMockedStore(t)
	mock.ExpectExec(`INSERT INTO "revoked_tokens"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Revoke(context.Background(), "abc123", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationStore_RevokeRequiresID(t *testing.T) {
	store, mock := newMockedStore(t)
	require.Error(t, store.Revoke(context.Background(), " ", time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationStore_IsRevoked(t *testing.T) {
	store, mock := newMockedStore(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "revoked_tokens"`).
		WithArgs("abc123", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "revoked_tokens"`).
		WithArgs("other", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	revoked, err := store.IsRevoked(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(context.Background(), "other")
	require.NoError(t, err)
	assert.False(t, revoked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationStore_PurgeExpired(t *testing.T) {
	store, mock := newMockedStore(t)
	mock.ExpectExec(`DELETE FROM "revoked_tokens" WHERE expires_at <=`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	purged, err := store.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationStore_NotConfigured(t *testing.T) {
	var store *RevocationStore
	_, err := store.IsRevoked(context.Background(), "abc")
	require.Error(t, err)
}
