package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

// RevocationStore persists revoked token IDs in PostgreSQL.
type RevocationStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRevocationStore wires a PostgreSQL-backed revocation store. Caller owns DB lifecycle.
func NewRevocationStore(db *gorm.DB) *RevocationStore {
	return &RevocationStore{db: db, now: time.Now}
}

type revokedTokenRecord struct {
	TokenID   string    `gorm:"primaryKey;column:token_id;size:64"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (revokedTokenRecord) TableName() string { return "revoked_tokens" }

// Revoke stores tokenID until expiresAt.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return errors.New("token id is required")
	}
	rec := revokedTokenRecord{TokenID: tokenID, ExpiresAt: expiresAt}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"expires_at"}),
		}).
		Create(&rec).Error
}

// IsRevoked reports whether tokenID is revoked and not yet expired.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&revokedTokenRecord{}).
		Where("token_id = ? AND expires_at > ?", strings.TrimSpace(tokenID), s.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired removes revocations whose tokens have expired anyway. Use for housekeeping or cron.
func (s *RevocationStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&revokedTokenRecord{})
	return result.RowsAffected, result.Error
}

func (s *RevocationStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres revocation store not configured")
	}
	return nil
}

var _ userports.RevocationStore = (*RevocationStore)(nil)
