package tracing

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestTraceIDFromContext_Empty(t *testing.T) {
	require.Equal(t, "", TraceIDFromContext(context.Background()))
	require.Equal(t, "", TraceIDFromContext(nil)) //nolint:staticcheck // nil context is handled
}

func TestContextWithTraceID_Roundtrip(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "abc")
	require.Equal(t, "abc", TraceIDFromContext(ctx))

	same := ContextWithTraceID(ctx, "")
	require.Equal(t, "abc", TraceIDFromContext(same))
}

func TestGenerateTraceID(t *testing.T) {
	id := GenerateTraceID()
	require.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	require.NoError(t, err)
	require.NotEqual(t, id, GenerateTraceID())
}

func TestStartExecution_NoopTracerStillHasTraceID(t *testing.T) {
	ctx, span := StartExecution(context.Background(), noop.NewTracerProvider().Tracer("noop"))
	defer span.End()
	require.Len(t, TraceIDFromContext(ctx), 32)
}
