package ports

import (
	"context"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
)

// Sender hands a message to an e-mail provider.
type Sender interface {
	Send(ctx context.Context, msg domain.Message) error
}

// Archive keeps a copy of delivered messages.
type Archive interface {
	Store(ctx context.Context, msg domain.Message) error
}

// SendOptions tunes a single delivery.
type SendOptions struct {
	// SkipArchive keeps the message out of the archive, for bodies carrying credentials.
	SkipArchive bool
}

type SendOption func(*SendOptions)

// WithoutArchive delivers the message without storing a copy.
func WithoutArchive() SendOption {
	return func(o *SendOptions) { o.SkipArchive = true }
}

// ApplySendOptions folds opts into a SendOptions value.
func ApplySendOptions(opts ...SendOption) SendOptions {
	var options SendOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

// Service exposes the mail use cases.
type Service interface {
	Send(ctx context.Context, to, subject, body string, opts ...SendOption) (*domain.Message, error)
}
