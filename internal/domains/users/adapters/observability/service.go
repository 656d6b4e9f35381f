package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	usertypes "github.com/Apurer/spottythings-api/internal/domains/users/application/types"
	userdomain "github.com/Apurer/spottythings-api/internal/domains/users/domain"
	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/spottythings-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) SignUp(ctx context.Context, user *userdomain.User) (*userdomain.User, error) {
	username := ""
	if user != nil {
		username = user.Username
	}
	ctx, span := s.tracer.Start(ctx, "UserService.SignUp", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	result, err := s.inner.SignUp(ctx, user)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to sign up user", slog.String("username", username))
	}
	s.metrics.recordSignUp(ctx)
	s.logInfo(ctx, "user signed up", slog.String("username", result.Username))
	return result, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByUsername", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	return s.inner.GetByUsername(ctx, username)
}

func (s *Service) Delete(ctx context.Context, username string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	if err := s.inner.Delete(ctx, username); err != nil {
		return s.handleError(ctx, span, err, "failed to delete user", slog.String("username", username))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "user deleted", slog.String("username", username))
	return nil
}

func (s *Service) UpdatePassword(ctx context.Context, username, password string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdatePassword", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	result, err := s.inner.UpdatePassword(ctx, username, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update password", slog.String("username", username))
	}
	s.metrics.recordPasswordChange(ctx, "update")
	return result, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (usertypes.Session, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	session, err := s.inner.Login(ctx, username, password)
	if err != nil {
		s.metrics.recordLoginFailure(ctx)
		return usertypes.Session{}, s.handleError(ctx, span, err, "login failed", slog.String("username", username))
	}
	s.metrics.recordLogin(ctx)
	return session, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, rawToken); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (usertypes.Claims, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	claims, err := s.inner.Authenticate(ctx, rawToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return usertypes.Claims{}, err
	}
	span.SetAttributes(attribute.String("user.username", claims.Username))
	return claims, nil
}

func (s *Service) IssueTemporaryPassword(ctx context.Context, username string) (usertypes.PasswordReset, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.IssueTemporaryPassword", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	reset, err := s.inner.IssueTemporaryPassword(ctx, username)
	if err != nil {
		return usertypes.PasswordReset{}, s.handleError(ctx, span, err, "failed to issue temporary password", slog.String("username", username))
	}
	s.metrics.recordPasswordChange(ctx, "reset")
	s.logInfo(ctx, "temporary password issued", slog.String("username", username))
	return reset, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	signUps         metric.Int64Counter
	deleted         metric.Int64Counter
	logins          metric.Int64Counter
	loginFailures   metric.Int64Counter
	passwordChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	signUps, _ := m.Int64Counter("users.service.signups", metric.WithDescription("Number of users registered"))
	deleted, _ := m.Int64Counter("users.service.deleted", metric.WithDescription("Number of users deleted"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	failures, _ := m.Int64Counter("users.service.login_failures", metric.WithDescription("Number of rejected logins"))
	changes, _ := m.Int64Counter("users.service.password_changes", metric.WithDescription("Number of password updates and resets"))
	return serviceMetrics{signUps: signUps, deleted: deleted, logins: logins, loginFailures: failures, passwordChanges: changes}
}

func (m serviceMetrics) recordSignUp(ctx context.Context) {
	if m.signUps != nil {
		m.signUps.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted != nil {
		m.deleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLoginFailure(ctx context.Context) {
	if m.loginFailures != nil {
		m.loginFailures.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordPasswordChange(ctx context.Context, kind string) {
	if m.passwordChanges != nil {
		m.passwordChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
