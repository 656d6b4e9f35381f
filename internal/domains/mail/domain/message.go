package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingRecipient = errors.New("recipient address is required")
	ErrInvalidRecipient = errors.New("recipient address must contain '@'")
)

// Message is a single outbound plain-text e-mail.
type Message struct {
	ID      string    `json:"id"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sentAt,omitempty"`
}

// NewMessage validates the recipient and assigns a fresh identifier.
func NewMessage(to, subject, body string) (*Message, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, ErrMissingRecipient
	}
	if !strings.Contains(to, "@") {
		return nil, ErrInvalidRecipient
	}
	return &Message{
		ID:      uuid.NewString(),
		To:      to,
		Subject: subject,
		Body:    body,
	}, nil
}

// DeliveryError describes why a message could not be handed to the provider.
// It is serialised as-is into API error bodies.
type DeliveryError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	// CodeEnvelope marks a message rejected before delivery because of its recipient.
	CodeEnvelope = "EENVELOPE"
	// CodeProvider marks a failure reported by the e-mail provider.
	CodeProvider = "EPROVIDER"
)

// AsDeliveryError converts any send failure into a DeliveryError.
func AsDeliveryError(err error) *DeliveryError {
	if err == nil {
		return nil
	}
	var de *DeliveryError
	if errors.As(err, &de) {
		return de
	}
	switch {
	case errors.Is(err, ErrMissingRecipient):
		return &DeliveryError{Code: CodeEnvelope, Message: "No recipients defined"}
	case errors.Is(err, ErrInvalidRecipient):
		return &DeliveryError{Code: CodeEnvelope, Message: err.Error()}
	default:
		return &DeliveryError{Code: CodeProvider, Message: err.Error()}
	}
}
