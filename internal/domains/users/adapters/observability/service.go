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

	userdomain "github.com/avetrov/go-shop-api/internal/domains/users/domain"
	userports "github.com/avetrov/go-shop-api/internal/domains/users/ports"
)

const tracerName = "github.com/avetrov/go-shop-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
// Emails and passwords never appear in span attributes or log lines.
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

// New wires a decorator around the core user service.
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

func (s *Service) Create(ctx context.Context, params userports.CreateUser) (*userdomain.User, error) {
	ctx, span := s.startSpan(ctx, "Service.Create", attribute.String("user.role", string(params.Role)))
	defer span.End()

	s.logInfo(ctx, "creating user")
	user, err := s.inner.Create(ctx, params)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create user")
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "user created", slog.String("user.id", user.ID))
	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*userdomain.User, error) {
	ctx, span := s.startSpan(ctx, "Service.Get", attribute.String("user.id", id))
	defer span.End()

	user, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user", slog.String("user.id", id))
	}
	return user, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByEmail")
	defer span.End()

	user, err := s.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user by email")
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*userdomain.User, error) {
	ctx, span := s.startSpan(ctx, "Service.List")
	defer span.End()

	users, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int("user.result.count", len(users)))
	return users, nil
}

func (s *Service) Update(ctx context.Context, id string, params userports.UpdateUser) (*userdomain.User, error) {
	ctx, span := s.startSpan(ctx, "Service.Update", attribute.String("user.id", id))
	defer span.End()

	s.logInfo(ctx, "updating user", slog.String("user.id", id))
	user, err := s.inner.Update(ctx, id, params)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update user", slog.String("user.id", id))
	}
	s.logInfo(ctx, "user updated", slog.String("user.id", user.ID), slog.String("user.role", string(user.Role)))
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.String("user.id", id))
	defer span.End()

	s.logInfo(ctx, "deleting user", slog.String("user.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete user", slog.String("user.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "user deleted", slog.String("user.id", id))
	return nil
}

// MarkVerified completes the email verification flow.
func (s *Service) MarkVerified(ctx context.Context, id string) (*userdomain.User, error) {
	ctx, span := s.startSpan(ctx, "Service.MarkVerified", attribute.String("user.id", id))
	defer span.End()

	user, err := s.inner.MarkVerified(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to mark user verified", slog.String("user.id", id))
	}
	s.metrics.recordVerified(ctx)
	s.logInfo(ctx, "user verified", slog.String("user.id", user.ID))
	return user, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
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

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	registered metric.Int64Counter
	verified   metric.Int64Counter
	deleted    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of user accounts created"))
	verified, _ := m.Int64Counter("users.service.verified", metric.WithDescription("Number of accounts that completed email verification"))
	deleted, _ := m.Int64Counter("users.service.deleted", metric.WithDescription("Number of user accounts deleted"))
	return serviceMetrics{registered: registered, verified: verified, deleted: deleted}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	addCounter(ctx, m.registered, 1)
}

func (m serviceMetrics) recordVerified(ctx context.Context) {
	addCounter(ctx, m.verified, 1)
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.deleted, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ userports.Service = (*Service)(nil)
