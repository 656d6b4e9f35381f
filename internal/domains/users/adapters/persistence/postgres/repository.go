package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users in PostgreSQL using GORM. The schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID             string         `gorm:"primaryKey;column:id;size:36"`
	Username       string         `gorm:"column:username;uniqueIndex"`
	Name           string         `gorm:"column:name"`
	Surname        string         `gorm:"column:surname"`
	BirthDate      *time.Time     `gorm:"column:birth_date;type:date"`
	Address        string         `gorm:"column:address"`
	Email          string         `gorm:"column:email"`
	PasswordHash   string         `gorm:"column:password_hash"`
	PaymentMethods pq.StringArray `gorm:"column:payment_methods;type:text[]"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Create inserts a new user, failing on a duplicate username.
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateUsername
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save inserts or updates a user keyed by username.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "surname", "birth_date", "address", "email",
				"password_hash", "payment_methods", "updated_at",
			}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByUsername(ctx, record.Username)
}

// GetByUsername fetches a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "username = ?", strings.TrimSpace(username)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes a user by username.
func (r *Repository) Delete(ctx context.Context, username string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Delete(&userRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all users ordered by username.
func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("username").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	record := userRecord{
		ID:             user.ID,
		Username:       user.Username,
		Name:           user.Name,
		Surname:        user.Surname,
		Address:        user.Address,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		PaymentMethods: pq.StringArray(user.PaymentMethods),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if !user.BirthDate.IsZero() {
		birth := user.BirthDate
		record.BirthDate = &birth
	}
	return record
}

func (r userRecord) toDomain() *domain.User {
	user := &domain.User{
		ID:             r.ID,
		Username:       r.Username,
		Name:           r.Name,
		Surname:        r.Surname,
		Address:        r.Address,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		PaymentMethods: []string(r.PaymentMethods),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.BirthDate != nil {
		user.BirthDate = *r.BirthDate
	}
	return user
}
