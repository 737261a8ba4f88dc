package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/archery-scorer/internal/eventbus"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
)

type pingPayload struct {
	Value int `json:"value"`
}

func TestWrapTransformingTyped(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name     string
		payload  []byte
		metadata map[string]string
		handler  func(context.Context, *pingPayload) ([]Result, error)
		wantErr  bool
		verify   func(t *testing.T, out []*message.Message)
	}{
		{
			name:     "results become routed messages",
			payload:  []byte(`{"value":41}`),
			metadata: map[string]string{attr.CorrelationIDKey: "corr-1"},
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return []Result{{Topic: "pong", Payload: pingPayload{Value: p.Value + 1}, Metadata: map[string]string{"k": "v"}}}, nil
			},
			verify: func(t *testing.T, out []*message.Message) {
				require.Len(t, out, 1)
				assert.Equal(t, "pong", out[0].Metadata.Get(eventbus.TopicMetadataKey))
				assert.Equal(t, "corr-1", out[0].Metadata.Get(attr.CorrelationIDKey))
				assert.Equal(t, "v", out[0].Metadata.Get("k"))
				var got pingPayload
				require.NoError(t, json.Unmarshal(out[0].Payload, &got))
				assert.Equal(t, 42, got.Value)
			},
		},
		{
			name:     "reply subject reaches the handler",
			payload:  []byte(`{"value":1}`),
			metadata: map[string]string{ReplyToMetadataKey: "_INBOX.abc"},
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return []Result{{Topic: ReplyTopic(ctx, "pong"), Payload: p}}, nil
			},
			verify: func(t *testing.T, out []*message.Message) {
				require.Len(t, out, 1)
				assert.Equal(t, "_INBOX.abc", out[0].Metadata.Get(eventbus.TopicMetadataKey))
			},
		},
		{
			name:    "undecodable payload is dropped",
			payload: []byte(`not json`),
			handler: func(context.Context, *pingPayload) ([]Result, error) {
				t.Fatal("handler must not run")
				return nil, nil
			},
			verify: func(t *testing.T, out []*message.Message) { assert.Empty(t, out) },
		},
		{
			name:    "handler error is returned",
			payload: []byte(`{}`),
			handler: func(context.Context, *pingPayload) ([]Result, error) {
				return nil, errors.New("db down")
			},
			wantErr: true,
		},
		{
			name:    "result without topic fails",
			payload: []byte(`{}`),
			handler: func(context.Context, *pingPayload) ([]Result, error) {
				return []Result{{Payload: 1}}, nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := message.NewMessage("msg-1", tt.payload)
			for k, v := range tt.metadata {
				msg.Metadata.Set(k, v)
			}
			h := WrapTransformingTyped("test.ping", nil, tracer, nil, tt.handler)
			out, err := h(msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.verify != nil {
				tt.verify(t, out)
			}
		})
	}
}

func TestCorrelationIDDefaultsToMessageUUID(t *testing.T) {
	var seen string
	h := WrapTransformingTyped("test", nil, noop.NewTracerProvider().Tracer("test"), nil,
		func(ctx context.Context, _ *pingPayload) ([]Result, error) {
			seen = attr.CorrelationID(ctx)
			return nil, nil
		})
	_, err := h(message.NewMessage("uuid-7", []byte(`{}`)))
	require.NoError(t, err)
	assert.Equal(t, "uuid-7", seen)
}
