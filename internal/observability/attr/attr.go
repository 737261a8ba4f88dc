// Package attr provides slog attribute helpers shared by every module so that
// log records use consistent keys.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// CorrelationIDKey is the metadata key carrying the correlation ID on messages.
const CorrelationIDKey = "correlation_id"

type correlationIDCtxKey struct{}

func String(key, value string) slog.Attr             { return slog.String(key, value) }
func Int(key string, value int) slog.Attr            { return slog.Int(key, value) }
func Int64(key string, value int64) slog.Attr        { return slog.Int64(key, value) }
func Float64(key string, value float64) slog.Attr    { return slog.Float64(key, value) }
func Bool(key string, value bool) slog.Attr          { return slog.Bool(key, value) }
func Any(key string, value any) slog.Attr            { return slog.Any(key, value) }
func Time(key string, value time.Time) slog.Attr     { return slog.Time(key, value) }
func Duration(key string, d time.Duration) slog.Attr { return slog.Duration(key, d) }

// Error returns an "error" attribute; a nil error renders as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// ShootID tags a record with a shoot identifier.
func ShootID(id uuid.UUID) slog.Attr {
	return slog.String("shoot_id", id.String())
}

// RoundID tags a record with a catalogue round identifier.
func RoundID(id int64) slog.Attr {
	return slog.Int64("round_id", id)
}

// WithCorrelationID stores a correlation ID on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDCtxKey{}, id)
}

// CorrelationID returns the correlation ID stored on ctx, if any.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDCtxKey{}).(string)
	return id
}

// ExtractCorrelationID returns the context correlation ID as an attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String(CorrelationIDKey, CorrelationID(ctx))
}

// CorrelationIDFromMsg returns the message correlation ID as an attribute.
func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	if msg == nil {
		return slog.String(CorrelationIDKey, "")
	}
	return slog.String(CorrelationIDKey, msg.Metadata.Get(CorrelationIDKey))
}
