package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
	"github.com/Apurer/spottythings-api/internal/domains/mail/ports"
)

var errSenderNotConfigured = errors.New("mail sender not configured")

// Service validates and delivers outbound e-mail.
type Service struct {
	sender  ports.Sender
	archive ports.Archive
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

// WithArchive stores a copy of each delivered message.
func WithArchive(archive ports.Archive) Option {
	return func(s *Service) { s.archive = archive }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(sender ports.Sender, opts ...Option) *Service {
	s := &Service{
		sender: sender,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Send builds the message and hands it to the provider. Archive failures are
// logged and never returned to the caller.
func (s *Service) Send(ctx context.Context, to, subject, body string, opts ...ports.SendOption) (*domain.Message, error) {
	options := ports.ApplySendOptions(opts...)
	msg, err := domain.NewMessage(to, subject, body)
	if err != nil {
		return nil, err
	}
	if s.sender == nil {
		return nil, errSenderNotConfigured
	}
	if err := s.sender.Send(ctx, *msg); err != nil {
		return nil, err
	}
	msg.SentAt = s.now().UTC()
	if s.archive != nil && !options.SkipArchive {
		if err := s.archive.Store(ctx, *msg); err != nil {
			s.logger.WarnContext(ctx, "failed to archive sent message", slog.String("messageId", msg.ID), slog.String("error", err.Error()))
		}
	}
	return msg, nil
}

var _ ports.Service = (*Service)(nil)
