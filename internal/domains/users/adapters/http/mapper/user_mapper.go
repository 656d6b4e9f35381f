package mapper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	userdomain "github.com/Apurer/spottythings-api/internal/domains/users/domain"
)

// User represents the transport-level user payload.
type User struct {
	Username       string         `json:"username"`
	Name           string         `json:"nome"`
	Surname        string         `json:"cognome"`
	BirthDate      string         `json:"datadinascita"`
	Address        string         `json:"indirizzo"`
	Email          string         `json:"email"`
	Password       string         `json:"password,omitempty"`
	PaymentMethods PaymentMethods `json:"metodiPagamento"`
}

// PaymentMethods accepts either a single string or an array of strings.
type PaymentMethods []string

// UnmarshalJSON decodes a string or a list of strings.
func (p *PaymentMethods) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*p = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single = strings.TrimSpace(single); single == "" {
			*p = nil
		} else {
			*p = PaymentMethods{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("metodiPagamento must be a string or an array of strings")
	}
	*p = list
	return nil
}

// ToDomainUser converts a transport user to its domain counterpart.
func ToDomainUser(model User) (*userdomain.User, error) {
	user, err := userdomain.NewUser(model.Username, model.Password)
	if err != nil {
		return nil, err
	}
	birthDate, err := ParseBirthDate(model.BirthDate)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(userdomain.Profile{
		Name:           model.Name,
		Surname:        model.Surname,
		BirthDate:      birthDate,
		Address:        model.Address,
		Email:          model.Email,
		PaymentMethods: []string(model.PaymentMethods),
	}); err != nil {
		return nil, err
	}
	return user, nil
}

// FromDomainUser converts a domain user into a transport representation without the password.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	model := User{
		Username:       user.Username,
		Name:           user.Name,
		Surname:        user.Surname,
		Address:        user.Address,
		Email:          user.Email,
		PaymentMethods: PaymentMethods(user.PaymentMethods),
	}
	if !user.BirthDate.IsZero() {
		model.BirthDate = user.BirthDate.Format(userdomain.BirthDateLayout)
	}
	return model
}

// ParseBirthDate accepts YYYY-MM-DD or RFC 3339; empty means unknown.
func ParseBirthDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(userdomain.BirthDateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrInvalidBirthDate
	}
	return t.UTC(), nil
}

// ErrInvalidBirthDate is returned when datadinascita cannot be parsed.
var ErrInvalidBirthDate = fmt.Errorf("datadinascita must use the %s format", userdomain.BirthDateLayout)
