// Package handlerwrapper adapts typed handler functions to watermill's
// message.HandlerFunc, decoding the inbound payload and encoding every
// returned Result as an outbound message.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

// CtxKeyCorrelationID is the context key under which the inbound
// correlation id is stored for the handler.
const CtxKeyCorrelationID ctxKey = "correlation_id"

// Result is one outbound message produced by a handler.
type Result struct {
	Payload  any
	Metadata map[string]string
}

// Metrics records handler outcomes.
type Metrics interface {
	RecordHandlerAttempt(ctx context.Context, handler string)
	RecordHandlerSuccess(ctx context.Context, handler string)
	RecordHandlerFailure(ctx context.Context, handler string)
	RecordHandlerDuration(ctx context.Context, handler string, duration time.Duration)
}

// CorrelationID returns the correlation id stored in ctx, if any.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyCorrelationID).(string)
	return id
}

// WrapTransformingTyped decodes the message payload into T, runs handler and
// turns its results into messages that keep the inbound correlation id.
// Decoding failures are logged and acked, since redelivery cannot fix them.
func WrapTransformingTyped[T any](
	name string,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics Metrics,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := middleware.MessageCorrelationID(msg)
		ctx := context.WithValue(msg.Context(), CtxKeyCorrelationID, correlationID)

		ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
			attribute.String("message_id", msg.UUID),
			attribute.String("correlation_id", correlationID),
		))
		defer span.End()

		if metrics != nil {
			metrics.RecordHandlerAttempt(ctx, name)
			start := time.Now()
			defer func() { metrics.RecordHandlerDuration(ctx, name, time.Since(start)) }()
		}

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Failed to decode payload",
				slog.String("handler", name),
				slog.String("message_id", msg.UUID),
				slog.String("error", err.Error()),
			)
			span.RecordError(err)
			if metrics != nil {
				metrics.RecordHandlerFailure(ctx, name)
			}
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if metrics != nil {
				metrics.RecordHandlerFailure(ctx, name)
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			m, err := toMessage(r, correlationID)
			if err != nil {
				span.RecordError(err)
				if metrics != nil {
					metrics.RecordHandlerFailure(ctx, name)
				}
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out = append(out, m)
		}

		if metrics != nil {
			metrics.RecordHandlerSuccess(ctx, name)
		}
		return out, nil
	}
}

func toMessage(r Result, correlationID string) (*message.Message, error) {
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", r.Payload, err)
	}
	m := message.NewMessage(uuid.NewString(), body)
	for k, v := range r.Metadata {
		m.Metadata.Set(k, v)
	}
	if correlationID != "" {
		middleware.SetCorrelationID(correlationID, m)
	}
	return m, nil
}

// NewMessage encodes payload for publishing outside a handler, carrying the
// correlation id stored in ctx.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	return toMessage(Result{Payload: payload}, CorrelationID(ctx))
}
