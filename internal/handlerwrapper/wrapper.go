// Package handlerwrapper adapts typed event handlers to watermill handler funcs.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/archery-scorer/internal/eventbus"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/metrics"
)

type ctxKey string

// CtxKeyReplyTo holds the reply subject of a request message, if any.
const CtxKeyReplyTo ctxKey = "reply_to"

// ReplyToMetadataKey is the message metadata a requester sets to receive a reply.
const ReplyToMetadataKey = "reply_to"

// ErrMissingTopic is returned when a handler produces a result with no topic.
var ErrMissingTopic = errors.New("handler result has no topic")

// Result is one outgoing event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// ReplyTopic returns the reply subject carried by ctx, or fallback.
func ReplyTopic(ctx context.Context, fallback string) string {
	if rt, ok := ctx.Value(CtxKeyReplyTo).(string); ok && rt != "" {
		return rt
	}
	return fallback
}

// WrapTransformingTyped decodes the JSON payload into T, runs handler inside a span
// and turns its results into messages routed by topic metadata.
//
// Payloads that fail to decode are logged and acknowledged; handler errors are
// returned so router middleware can retry.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handlerMetrics metrics.HandlerMetrics,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if handlerMetrics == nil {
		handlerMetrics = metrics.NoOp{}
	}

	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := msg.Context()
		correlationID := msg.Metadata.Get(attr.CorrelationIDKey)
		if correlationID == "" {
			correlationID = msg.UUID
		}
		ctx = attr.WithCorrelationID(ctx, correlationID)
		if rt := msg.Metadata.Get(ReplyToMetadataKey); rt != "" {
			ctx = context.WithValue(ctx, CtxKeyReplyTo, rt)
		}

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", correlationID),
		))
		defer span.End()

		start := time.Now()
		handlerMetrics.RecordHandlerAttempt(ctx, handlerName)
		defer func() {
			handlerMetrics.RecordHandlerDuration(ctx, handlerName, time.Since(start))
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Dropping message with undecodable payload",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			handlerMetrics.RecordHandlerFailure(ctx, handlerName)
			span.SetStatus(codes.Error, "invalid payload")
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler failed",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			handlerMetrics.RecordHandlerFailure(ctx, handlerName)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			m, err := NewMessage(ctx, r)
			if err != nil {
				handlerMetrics.RecordHandlerFailure(ctx, handlerName)
				span.RecordError(err)
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			out = append(out, m)
		}

		handlerMetrics.RecordHandlerSuccess(ctx, handlerName)
		return out, nil
	}
}

// NewMessage marshals a result into a message carrying its topic and the
// correlation ID from ctx.
func NewMessage(ctx context.Context, r Result) (*message.Message, error) {
	if r.Topic == "" {
		return nil, ErrMissingTopic
	}
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", r.Topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(eventbus.TopicMetadataKey, r.Topic)
	if id := attr.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(attr.CorrelationIDKey, id)
	}
	for k, v := range r.Metadata {
		msg.Metadata.Set(k, v)
	}
	msg.SetContext(ctx)
	return msg, nil
}
