package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyUsername       = errors.New("username is required")
	ErrUsernameTooLong     = errors.New("username must be at most 64 characters")
	ErrEmptyPassword       = errors.New("password is required")
	ErrWeakPassword        = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
	ErrEmptyEmail          = errors.New("email is required")
	ErrInvalidEmail        = errors.New("email must contain '@'")
	ErrBirthDateInFuture   = errors.New("birth date cannot be in the future")
	ErrMissingPasswordHash = errors.New("password hash is missing")
)

const (
	// MinPasswordLength is the shortest accepted plaintext password.
	MinPasswordLength = 6
	// MaxPasswordBytes is the longest input bcrypt hashes.
	MaxPasswordBytes = 72
	// MaxUsernameLength matches the width of the username column.
	MaxUsernameLength = 64
)

// BirthDateLayout is the calendar format used for birth dates.
const BirthDateLayout = "2006-01-02"

// User represents a registered SpottyThings account.
type User struct {
	ID             string
	Username       string
	Name           string
	Surname        string
	BirthDate      time.Time
	Address        string
	Email          string
	PasswordHash   string
	PaymentMethods []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile carries the optional personal data of a user.
type Profile struct {
	Name           string
	Surname        string
	BirthDate      time.Time
	Address        string
	Email          string
	PaymentMethods []string
}

// NewUser builds a user with a validated username and a hashed password.
func NewUser(username, password string) (*User, error) {
	user := &User{}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	u.Username = username
	return nil
}

// SetPassword validates the plaintext and stores its bcrypt hash.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// UpdateProfile applies the personal fields.
func (u *User) UpdateProfile(profile Profile) error {
	email := strings.TrimSpace(profile.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if !profile.BirthDate.IsZero() && profile.BirthDate.After(time.Now()) {
		return ErrBirthDateInFuture
	}
	u.Name = strings.TrimSpace(profile.Name)
	u.Surname = strings.TrimSpace(profile.Surname)
	u.BirthDate = profile.BirthDate
	u.Address = strings.TrimSpace(profile.Address)
	u.Email = email
	u.PaymentMethods = cleanPaymentMethods(profile.PaymentMethods)
	return nil
}

// Profile returns the personal fields of the user.
func (u *User) Profile() Profile {
	return Profile{
		Name:           u.Name,
		Surname:        u.Surname,
		BirthDate:      u.BirthDate,
		Address:        u.Address,
		Email:          u.Email,
		PaymentMethods: append([]string(nil), u.PaymentMethods...),
	}
}

// CheckPassword compares the supplied plaintext with the stored hash.
func (u *User) CheckPassword(password string) bool {
	password = strings.TrimSpace(password)
	if password == "" || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrMissingPasswordHash
	}
	return u.UpdateProfile(u.Profile())
}

func cleanPaymentMethods(methods []string) []string {
	if len(methods) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(methods))
	for _, m := range methods {
		if m = strings.TrimSpace(m); m != "" {
			cleaned = append(cleaned, m)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
