package telemetry

import (
	"context"
	"log/slog"
	"time"

	"messenger-service/internal/observability"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any, headers map[string]string) error
	Close() error
}

// EventEmitter wraps domain events in an Envelope and publishes them with
// the event type as routing key.
type EventEmitter struct {
	publisher   Publisher
	service     string
	environment string
	now         func() time.Time
}

type Envelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Environment   string `json:"environment"`
	RequestID     string `json:"request_id"`
	UserID        *int   `json:"user_id,omitempty"`
	Payload       any    `json:"payload"`
}

func NewEventEmitter(publisher Publisher, service, environment string) *EventEmitter {
	return &EventEmitter{
		publisher:   publisher,
		service:     service,
		environment: environment,
		now:         time.Now,
	}
}

// Emit publishes the event. Failures are logged and counted, never returned.
func (e *EventEmitter) Emit(ctx context.Context, eventType string, userID int, payload any) {
	if e == nil || e.publisher == nil {
		return
	}

	requestID := observability.RequestIDFromContext(ctx)
	envelope := Envelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		Payload:       payload,
	}
	if userID != 0 {
		envelope.UserID = &userID
	}

	headers := observability.BuildHeaders(requestID, observability.TraceIDFromContext(ctx))
	if err := e.publisher.Publish(ctx, eventType, envelope, headers); err != nil {
		observability.IncEventPublishError()
		slog.WarnContext(ctx, "event publish failed",
			slog.String("event_type", eventType),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
	}
}
