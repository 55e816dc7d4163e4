package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type ping struct {
	Text string `json:"text"`
}

type fakeMetrics struct {
	trace []string
}

func (f *fakeMetrics) RecordHandlerAttempt(context.Context, string) {
	f.trace = append(f.trace, "attempt")
}

func (f *fakeMetrics) RecordHandlerSuccess(context.Context, string) {
	f.trace = append(f.trace, "success")
}

func (f *fakeMetrics) RecordHandlerFailure(context.Context, string) {
	f.trace = append(f.trace, "failure")
}

func (f *fakeMetrics) RecordHandlerDuration(context.Context, string, time.Duration) {
	f.trace = append(f.trace, "duration")
}

func newMessage(t *testing.T, payload any) *message.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	msg := message.NewMessage("msg-1", body)
	middleware.SetCorrelationID("corr-1", msg)
	return msg
}

func TestWrapTransformingTyped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name      string
		msg       func(t *testing.T) *message.Message
		handler   func(context.Context, *ping) ([]Result, error)
		wantErr   bool
		wantOut   []string
		wantTrace []string
	}{
		{
			name: "decodes payload and encodes results",
			msg:  func(t *testing.T) *message.Message { return newMessage(t, ping{Text: "hi"}) },
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				assert.Equal(t, "corr-1", CorrelationID(ctx))
				return []Result{{Payload: ping{Text: p.Text + "!"}, Metadata: map[string]string{"k": "v"}}}, nil
			},
			wantOut:   []string{`{"text":"hi!"}`},
			wantTrace: []string{"attempt", "success", "duration"},
		},
		{
			name: "handler error is returned for redelivery",
			msg:  func(t *testing.T) *message.Message { return newMessage(t, ping{}) },
			handler: func(context.Context, *ping) ([]Result, error) {
				return nil, errors.New("boom")
			},
			wantErr:   true,
			wantTrace: []string{"attempt", "failure", "duration"},
		},
		{
			name: "undecodable payload is acked",
			msg:  func(*testing.T) *message.Message { return message.NewMessage("bad", []byte("{")) },
			handler: func(context.Context, *ping) ([]Result, error) {
				t.Fatal("handler must not run")
				return nil, nil
			},
			wantTrace: []string{"attempt", "failure", "duration"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := &fakeMetrics{}
			wrapped := WrapTransformingTyped("test.handler", logger, tracer, metrics, tt.handler)

			out, err := wrapped(tt.msg(t))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			got := make([]string, 0, len(out))
			for _, m := range out {
				got = append(got, string(m.Payload))
				assert.Equal(t, "corr-1", middleware.MessageCorrelationID(m))
				assert.Equal(t, "v", m.Metadata.Get("k"))
			}
			if len(tt.wantOut) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.wantOut, got)
			}
			assert.Equal(t, tt.wantTrace, metrics.trace)
		})
	}
}
