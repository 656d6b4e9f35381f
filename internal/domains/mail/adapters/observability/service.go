package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
	"github.com/Apurer/spottythings-api/internal/domains/mail/ports"
)

const tracerName = "github.com/Apurer/spottythings-api/internal/domains/mail/adapters/observability/service"

// Service decorates the mail service with tracing, logging, and metrics.
type Service struct {
	inner  ports.Service
	tracer trace.Tracer
	logger *slog.Logger
	sent   metric.Int64Counter
	failed metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.sent, _ = m.Int64Counter("mail.service.sent", metric.WithDescription("Number of messages handed to the provider"))
		s.failed, _ = m.Int64Counter("mail.service.failed", metric.WithDescription("Number of messages that could not be sent"))
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Send(ctx context.Context, to, subject, body string, opts ...ports.SendOption) (*domain.Message, error) {
	ctx, span := s.tracer.Start(ctx, "MailService.Send", trace.WithAttributes(attribute.String("mail.to", to)))
	defer span.End()
	msg, err := s.inner.Send(ctx, to, subject, body, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if s.failed != nil {
			s.failed.Add(ctx, 1)
		}
		level := slog.LevelError
		if errors.Is(err, domain.ErrMissingRecipient) || errors.Is(err, domain.ErrInvalidRecipient) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "failed to send e-mail", slog.String("to", to), slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.String("mail.id", msg.ID))
	if s.sent != nil {
		s.sent.Add(ctx, 1)
	}
	s.logger.InfoContext(ctx, "e-mail sent", slog.String("messageId", msg.ID), slog.String("to", msg.To))
	return msg, nil
}

var _ ports.Service = (*Service)(nil)
