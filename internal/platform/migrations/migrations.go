package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the users bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&revokedTokenRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID             string         `gorm:"primaryKey;column:id;size:36"`
	Username       string         `gorm:"column:username;uniqueIndex;size:64"`
	Name           string         `gorm:"column:name"`
	Surname        string         `gorm:"column:surname"`
	BirthDate      *time.Time     `gorm:"column:birth_date;type:date"`
	Address        string         `gorm:"column:address"`
	Email          string         `gorm:"column:email;index"`
	PasswordHash   string         `gorm:"column:password_hash"`
	PaymentMethods pq.StringArray `gorm:"column:payment_methods;type:text[]"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Revoked token schema mirrors the revocation store.
type revokedTokenRecord struct {
	TokenID   string    `gorm:"primaryKey;column:token_id;size:64"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (revokedTokenRecord) TableName() string { return "revoked_tokens" }
