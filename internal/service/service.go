// Package service implements the messaging operations on top of
// transaction-scoped repositories.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"messenger-service/internal/apperr"
	"messenger-service/internal/observability"
	"messenger-service/internal/repositories"
)

// Store runs fn with repositories bound to a single transaction.
type Store interface {
	WithinTx(ctx context.Context, fn func(repos repositories.Repos) error) error
}

// EventEmitter publishes domain events after a successful commit. Emit never
// fails the calling operation.
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, userID int, payload any)
}

// Domain event types.
const (
	EventChatCreated    = "chat.created"
	EventMessageSent    = "message.sent"
	EventUserRegistered = "user.registered"
)

var tracer = otel.Tracer("messenger-service/service")

type options struct {
	now    func() time.Time
	loc    *time.Location
	events EventEmitter
	logger *slog.Logger
}

// Option configures Messenger and Accounts.
type Option func(*options)

// WithClock overrides the time source used for presence and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the zone used for displayed times.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func WithEvents(events EventEmitter) Option {
	return func(o *options) { o.events = events }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) emit(ctx context.Context, eventType string, userID int, payload any) {
	if o.events == nil {
		return
	}
	o.events.Emit(ctx, eventType, userID, payload)
}

// classify converts repository sentinels into error kinds and anything
// unrecognised into a store failure.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrChatNotFound):
		return apperr.NotFound("chat not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperr.NotFound("user not found")
	case errors.Is(err, repositories.ErrPhoneTaken):
		return apperr.Conflict("phone already registered")
	case errors.Is(err, repositories.ErrSelfChat):
		return apperr.Validation("cannot create chat with yourself")
	}
	return apperr.Wrap(op, err)
}

// finish records a failed operation on the span and in metrics.
func (o options) finish(ctx context.Context, span trace.Span, op string, err error) error {
	defer span.End()
	if err == nil {
		return nil
	}
	err = classify(op, err)
	kind := apperr.KindOf(err)
	observability.IncOperationError(op, kind)
	span.SetStatus(codes.Error, kind)
	if kind == apperr.ErrStore.Error() {
		span.RecordError(err)
		o.logger.ErrorContext(ctx, "operation failed", slog.String("op", op), slog.Any("error", err))
	}
	return err
}
